package templating_test

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/webapp_boilerplate/templating"
)

func TestValue_String_numbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-7, "-7"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tc := range tests {
		assert.Equal(
			t, tc.want, templating.NumberValue(tc.in).String(),
		)
	}
}

func TestValue_String_other_kinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", templating.NullValue().String())
	assert.Equal(t, "false", templating.BoolValue(false).String())
	assert.Equal(t, "x", templating.StringValue("x").String())
	assert.Equal(
		t, "[object Object]",
		templating.MappingValue(nil).String(),
	)
	assert.Equal(
		t, "a,1,,b,c",
		templating.SequenceValue(
			templating.StringValue("a"),
			templating.NumberValue(1),
			templating.NullValue(),
			templating.SequenceValue(
				templating.StringValue("b"),
				templating.StringValue("c"),
			),
		).String(),
	)
}

func TestValue_accessors(t *testing.T) {
	t.Parallel()

	b, ok := templating.BoolValue(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = templating.StringValue("1").AsNumber()
	assert.False(t, ok)

	n, ok := templating.NumberValue(3).AsNumber()
	assert.True(t, ok)
	assert.InDelta(t, 3.0, n, 0)

	s, ok := templating.StringValue("s").AsString()
	assert.True(t, ok)
	assert.Equal(t, "s", s)

	assert.True(t, templating.Value{}.IsNull())
	assert.Equal(t, 2, templating.SequenceValue(
		templating.NullValue(), templating.NullValue(),
	).Len())
	assert.Zero(t, templating.StringValue("abc").Len())
}

func TestValue_MappingValue_copies(t *testing.T) {
	t.Parallel()

	src := map[string]templating.Value{"a": templating.StringValue("A")}
	val := templating.MappingValue(src)

	src["a"] = templating.StringValue("changed")

	got, ok := val.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "A", got.String())
}

func TestValue_With(t *testing.T) {
	t.Parallel()

	base := templating.MappingValue(map[string]templating.Value{
		"a": templating.StringValue("A"),
	})

	next := base.With("b", templating.StringValue("B"))

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, next.Keys())

	fresh := templating.NullValue().With("k", templating.BoolValue(true))
	assert.Equal(t, []string{"k"}, fresh.Keys())
}

func TestFromAny_decoded_json(t *testing.T) {
	t.Parallel()

	var raw interface{}

	require.NoError(t, json.Unmarshal(
		[]byte(`{"a":{"b":[1,"two",null,true]},"n":1.25}`),
		&raw,
	))

	val, err := templating.FromAny(raw)
	require.NoError(t, err)

	got, ok := templating.ResolvePath(val, "a.b")
	require.True(t, ok)
	assert.Equal(t, "1,two,,true", got.String())

	got, ok = templating.ResolvePath(val, "n")
	require.True(t, ok)
	assert.Equal(t, "1.25", got.String())
}

func TestFromAny_yaml_style_keys(t *testing.T) {
	t.Parallel()

	val, err := templating.FromAny(map[interface{}]interface{}{
		1:     "one",
		"two": uint64(2),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "two"}, val.Keys())
}

func TestFromAny_json_number(t *testing.T) {
	t.Parallel()

	val, err := templating.FromAny(json.Number("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "12.5", val.String())

	_, err = templating.FromAny(json.Number("nope"))
	assert.Error(t, err)
}

func TestFromAny_unsupported(t *testing.T) {
	t.Parallel()

	_, err := templating.FromAny(map[string]interface{}{
		"ch": make(chan int),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
