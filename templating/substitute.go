package templating

import "strings"

// Default placeholder delimiters.
const (
	DefaultStartTag = "#{#"
	DefaultEndTag   = "#}#"
)

// lineBreaks never appear inside a placeholder path.
const lineBreaks = "\n\r\u2028\u2029"

// Observer is notified once per placeholder with the
// captured path and the value written in its place.
type Observer func(path string, value Value)

// Substitute replaces every startTag+path+endTag
// placeholder in text with the value at path in root.
//
// Tags are literal text. A placeholder ends at the first
// endTag after its startTag, its path holds at least one
// character and no line break. Unresolved paths are
// replaced by the empty string. Replacement text is not
// scanned again. obs may be nil.
//
// Text is returned unchanged when either tag is empty.
func Substitute(
	text string,
	root Value,
	startTag string,
	endTag string,
	obs Observer,
) string {
	if startTag == "" || endTag == "" {
		return text
	}

	var sb strings.Builder

	// done is the end of the text already copied to sb,
	// pos the place where the next startTag search begins.
	done, pos := 0, 0

	for pos < len(text) {
		open := strings.Index(text[pos:], startTag)
		if open < 0 {
			break
		}

		open += pos
		start := open + len(startTag)

		if start >= len(text) {
			break
		}

		rel := strings.Index(text[start+1:], endTag)
		if rel < 0 {
			// Later start tags begin further right, so
			// none of them can be closed either.
			break
		}

		end := start + 1 + rel
		path := text[start:end]

		if strings.ContainsAny(path, lineBreaks) {
			pos = open + 1

			continue
		}

		val, ok := ResolvePath(root, path)
		if !ok {
			val = StringValue("")
		}

		if obs != nil {
			obs(path, val)
		}

		if sb.Len() == 0 {
			sb.Grow(len(text))
		}

		sb.WriteString(text[done:open])
		sb.WriteString(val.String())

		done = end + len(endTag)
		pos = done
	}

	if done == 0 {
		return text
	}

	sb.WriteString(text[done:])

	return sb.String()
}
