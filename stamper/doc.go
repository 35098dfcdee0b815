// Package stamper reads build status files and exposes their variables to the
// build. LoadStamps parses one or more KEY VALUE files into a variable map;
// Expand substitutes single-brace {KEY} placeholders in option
// strings such as output file names; Merge publishes the variables to HTML
// templates under the "stamp" key of the template data.
package stamper
