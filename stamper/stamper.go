package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/webapp_boilerplate/templating"
)

// DataKey is the template data key holding the stamps.
const DataKey = "stamp"

// LoadStamps reads status files and merges them into a
// single map. Each line is "KEY VALUE" with the first
// space as delimiter. Lines without a space are silently
// skipped and later files override earlier ones.
func LoadStamps(
	infoFiles []string,
) (map[string]interface{}, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]interface{})

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from build options
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(
				strings.TrimSuffix(line, "\r"), " ", 2,
			)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// Expand substitutes {KEY} placeholders in format.
// Unknown keys are preserved as-is.
func Expand(
	stamps map[string]interface{},
	format string,
) string {
	if len(stamps) == 0 {
		return format
	}

	return fasttemplate.ExecuteStringStd(
		format, "{", "}", stamps,
	)
}

// Merge returns a copy of data with the stamps added as a
// mapping under DataKey. Data is returned untouched when
// there are no stamps.
func Merge(
	data templating.Value,
	stamps map[string]interface{},
) templating.Value {
	if len(stamps) == 0 {
		return data
	}

	m := make(map[string]templating.Value, len(stamps))
	for key, val := range stamps {
		m[key] = templating.StringValue(fmt.Sprint(val))
	}

	return data.With(DataKey, templating.MappingValue(m))
}
