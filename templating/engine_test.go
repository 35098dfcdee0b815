package templating_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/webapp_boilerplate/templating"
)

// helper creates a temporary file with content and
// returns its path.
func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func TestExpand_default_tags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(
		t, dir, "index.html",
		"<title>#{#site.title#}#</title>",
	)

	outPath := filepath.Join(dir, "out.html")

	en := templating.Engine{
		Data: mustData(t, map[string]interface{}{
			"site": map[string]interface{}{"title": "Home"},
		}),
	}

	require.NoError(t, en.Expand(tplPath, outPath))

	got, err := os.ReadFile(outPath) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "<title>Home</title>", string(got))
}

func TestExpand_custom_tags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(
		t, dir, "tpl.txt", "Hello <%name%>!",
	)

	outPath := filepath.Join(dir, "out.txt")

	en := templating.Engine{
		StartTag: "<%",
		EndTag:   "%>",
		Data:     mustData(t, map[string]interface{}{"name": "World"}),
	}

	require.NoError(t, en.Expand(tplPath, outPath))

	got, err := os.ReadFile(outPath) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", string(got))
}

func TestExpand_missing_template_file(t *testing.T) {
	t.Parallel()

	en := templating.Engine{}

	err := en.Expand("/nonexistent/template.txt", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expanding template")
}

func TestExpand_same_tags_rejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(t, dir, "tpl.txt", "hi")

	en := templating.Engine{StartTag: "%%", EndTag: "%%"}

	err := en.Expand(tplPath, "")
	require.ErrorIs(t, err, templating.ErrBadTags)
}

func TestExpand_truncates_existing_output(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tplPath := writeTemp(t, dir, "tpl.txt", "short")
	outPath := writeTemp(t, dir, "out.txt", "a much longer previous content")

	en := templating.Engine{}

	require.NoError(t, en.Expand(tplPath, outPath))

	got, err := os.ReadFile(outPath) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestExpandString_observer(t *testing.T) {
	t.Parallel()

	var seen []string

	en := templating.Engine{
		Data: mustData(t, map[string]interface{}{"a": "A"}),
		Observer: func(path string, value templating.Value) {
			seen = append(seen, path+"="+value.String())
		},
	}

	got := en.ExpandString("#{#a#}##{#b#}#")

	assert.Equal(t, "A", got)
	assert.Equal(t, []string{"a=A", "b="}, seen)
}

func TestExpand_reports_flush_failure(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}

	tplPath := writeTemp(t, t.TempDir(), "tpl.txt", "content")

	en := templating.Engine{}

	err := en.Expand(tplPath, "/dev/full")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "flushing /dev/full")
}

func TestEngine_empty_tag_takes_default(t *testing.T) {
	t.Parallel()

	en := templating.Engine{
		StartTag: "{{",
		Data:     mustData(t, map[string]interface{}{"a": "A"}),
	}

	require.NoError(t, en.CheckTags())
	assert.Equal(t, "A {{a}}", en.ExpandString("{{a#}# {{a}}"))
}

func TestCheckTags_defaults_are_valid(t *testing.T) {
	t.Parallel()

	en := templating.Engine{}

	assert.NoError(t, en.CheckTags())

	en.StartTag = templating.DefaultEndTag
	assert.ErrorIs(t, en.CheckTags(), templating.ErrBadTags)
}
