// Package glob selects task source files with include and exclude glob
// patterns. Patterns are slash separated, relative to the project root and
// support "**" and "{a,b}" alternatives.
package glob
