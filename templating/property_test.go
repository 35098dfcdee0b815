package templating_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/byte4ever/webapp_boilerplate/templating"
)

// nest builds {seg0: {seg1: ... {segN: leaf}}}.
func nest(segs []string, leaf templating.Value) templating.Value {
	cur := leaf
	for i := len(segs) - 1; i >= 0; i-- {
		cur = templating.MappingValue(map[string]templating.Value{
			segs[i]: cur,
		})
	}

	return cur
}

func bracketed(segs []string) string {
	var sb strings.Builder

	sb.WriteString(segs[0])

	for _, seg := range segs[1:] {
		sb.WriteString("[" + seg + "]")
	}

	return sb.String()
}

func TestResolverProperties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	segments := gen.IntRange(1, 6).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), gen.Identifier())
	}, reflect.TypeOf([]string(nil)))

	properties.Property("dotted path resolves to the nested leaf", prop.ForAll(
		func(segs []string, leaf string) bool {
			data := nest(segs, templating.StringValue(leaf))

			got, ok := templating.ResolvePath(data, strings.Join(segs, "."))

			return ok && got.String() == leaf
		},
		segments,
		gen.AlphaString(),
	))

	properties.Property("bracket and dot forms normalize alike", prop.ForAll(
		func(segs []string) bool {
			return templating.NormalizePath(bracketed(segs)) ==
				strings.Join(segs, ".")
		},
		segments,
	))

	properties.Property("missing leading segment never resolves", prop.ForAll(
		func(segs []string) bool {
			data := nest(segs, templating.StringValue("leaf"))
			path := "zz" + strings.Join(segs, ".")

			_, ok := templating.ResolvePath(data, path)

			return !ok
		},
		segments,
	))

	properties.Property("text without tags is unchanged", prop.ForAll(
		func(text string) bool {
			return templating.Substitute(
				text,
				templating.NullValue(),
				templating.DefaultStartTag,
				templating.DefaultEndTag,
				nil,
			) == text
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return !strings.Contains(s, "#")
		}),
	))

	properties.Property("placeholder renders the leaf", prop.ForAll(
		func(segs []string, leaf string) bool {
			data := nest(segs, templating.StringValue(leaf))
			text := "<" + templating.DefaultStartTag +
				bracketed(segs) + templating.DefaultEndTag + ">"

			return templating.Substitute(
				text, data,
				templating.DefaultStartTag,
				templating.DefaultEndTag,
				nil,
			) == "<"+leaf+">"
		},
		segments,
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
