package stamper_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/webapp_boilerplate/stamper"
	"github.com/byte4ever/webapp_boilerplate/templating"
)

// writeTemp creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func TestLoadStamps_later_file_overrides_earlier(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf1 := writeTemp(
		t, dir, "s1.txt", "VER 1.0\nHOST ci\n",
	)
	sf2 := writeTemp(
		t, dir, "s2.txt", "VER 2.0\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf1, sf2})

	require.NoError(t, err)
	assert.Equal(
		t, "version=2.0 host=ci",
		stamper.Expand(stamps, "version={VER} host={HOST}"),
	)
}

func TestLoadStamps_returns_map(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf := writeTemp(
		t, dir, "status.txt",
		"BUILD_USER alice\nGIT_SHA deadbeef\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf})

	require.NoError(t, err)
	assert.Equal(t, "alice", stamps["BUILD_USER"])
	assert.Equal(t, "deadbeef", stamps["GIT_SHA"])
}

func TestLoadStamps_nil_files(t *testing.T) {
	t.Parallel()

	stamps, err := stamper.LoadStamps(nil)

	require.NoError(t, err)
	assert.Empty(t, stamps)
}

func TestLoadStamps_skips_malformed_lines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf := writeTemp(
		t, dir, "status.txt",
		"GOOD value\nBADLINE\n\nALSO_GOOD val2\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf})

	require.NoError(t, err)
	assert.Len(t, stamps, 2)
	assert.Equal(t, "value", stamps["GOOD"])
	assert.Equal(t, "val2", stamps["ALSO_GOOD"])
}

func TestLoadStamps_missing_file(t *testing.T) {
	t.Parallel()

	_, err := stamper.LoadStamps(
		[]string{"/nonexistent/file.txt"},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading stamps")
}

func TestLoadStamps_strips_carriage_returns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	sf := writeTemp(
		t, dir, "status.txt", "VERSION 1.2.3\r\nHOST ci\r\n",
	)

	stamps, err := stamper.LoadStamps([]string{sf})

	require.NoError(t, err)
	assert.Equal(t, "1.2.3", stamps["VERSION"])
	assert.Equal(t, "ci", stamps["HOST"])
}

func TestExpand_without_stamps_is_identity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "style-{V}.css", stamper.Expand(nil, "style-{V}.css"))
}

func TestExpand_substitutes(t *testing.T) {
	t.Parallel()

	got := stamper.Expand(
		map[string]interface{}{"V": "7"},
		"app-{V}-{W}.css",
	)

	assert.Equal(t, "app-7-{W}.css", got)
}

func TestMerge_adds_stamp_mapping(t *testing.T) {
	t.Parallel()

	data := templating.MappingValue(map[string]templating.Value{
		"title": templating.StringValue("Home"),
	})

	merged := stamper.Merge(data, map[string]interface{}{
		"BUILD_USER": "alice",
	})

	got, ok := templating.ResolvePath(merged, "stamp.BUILD_USER")
	require.True(t, ok)
	assert.Equal(t, "alice", got.String())

	got, ok = templating.ResolvePath(merged, "title")
	require.True(t, ok)
	assert.Equal(t, "Home", got.String())

	// The input tree is left untouched.
	_, ok = templating.ResolvePath(data, "stamp")
	assert.False(t, ok)
}

func TestMerge_no_stamps_returns_data(t *testing.T) {
	t.Parallel()

	data := templating.MappingValue(map[string]templating.Value{
		"stamp": templating.StringValue("user value"),
	})

	assert.Equal(t, data, stamper.Merge(data, nil))
}

func FuzzExpand(f *testing.F) {
	f.Add("Hello {name}!", "name", "World")
	f.Add("{a}{b}", "a", "x")
	f.Add("no tags here", "key", "val")
	f.Add("{", "k", "v")
	f.Add("}", "k", "v")
	f.Add("{key}", "key", "")
	f.Add("", "key", "val")
	f.Add("style-{a}.css", "a", "{nested}")

	f.Fuzz(func(
		t *testing.T,
		format string,
		key string,
		val string,
	) {
		stamps := map[string]interface{}{key: val}

		got := stamper.Expand(stamps, format)

		// Formats without a tag come back unchanged.
		if !strings.Contains(format, "{") {
			assert.Equal(t, format, got)
		}
	})
}
