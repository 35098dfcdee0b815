// Package templating substitutes #{#path#}# placeholders in text with values
// taken from a template data tree.
//
// Template data is a Value: a tagged union of null, bool, number, string,
// mapping and sequence, usually built with FromAny from decoded JSON or YAML.
// A path addresses a nested value with dots ("user.address.city") or
// brackets ("user[address][city]"); NormalizePath turns the latter into the
// former and ResolvePath walks the tree. Substitute scans text for
// placeholders between a literal start and end tag and replaces each with the
// resolved value, or with nothing when the path does not resolve.
//
// Engine bundles tags, data and an optional Observer, and expands whole files
// via the Expand method.
package templating
