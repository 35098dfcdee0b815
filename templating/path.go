package templating

import "strings"

// NormalizePath rewrites bracket segments to dot segments
// and strips one leading dot:
//
//	user[address][city] -> user.address.city
//
// Only brackets enclosing word characters (letters,
// digits, underscore) are rewritten. Anything else, such
// as "a[b-c]", is passed through untouched and will then
// fail to resolve.
func NormalizePath(path string) string {
	var sb strings.Builder

	sb.Grow(len(path))

	for i := 0; i < len(path); {
		if path[i] == '[' {
			end := i + 1
			for end < len(path) && isWordByte(path[end]) {
				end++
			}

			if end > i+1 && end < len(path) && path[end] == ']' {
				sb.WriteByte('.')
				sb.WriteString(path[i+1 : end])
				i = end + 1

				continue
			}
		}

		sb.WriteByte(path[i])
		i++
	}

	return strings.TrimPrefix(sb.String(), ".")
}

func isWordByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// ResolvePath walks root along path and returns the value
// found there. The second result is false when a segment
// is missing or the walk reaches a scalar before the last
// segment. An empty path resolves to root itself.
func ResolvePath(root Value, path string) (Value, bool) {
	normalized := NormalizePath(path)
	if normalized == "" {
		return root, true
	}

	cur := root

	for _, seg := range strings.Split(normalized, ".") {
		next, ok := cur.Lookup(seg)
		if !ok {
			return Value{}, false
		}

		cur = next
	}

	return cur, true
}
