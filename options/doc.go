// Package options loads the build configuration and the template data used
// by the build tasks.
//
// Options mirrors build-options.json: per-task source globs, the dist
// directory, style concatenation settings, autoprefixer browsers, the
// placeholder delimiters and the external tool command lines. Load decodes
// the file over Default so absent keys keep their default value, and
// Validate rejects settings that would make a build destructive or the
// placeholder scan ambiguous.
//
// LoadTemplateData reads the template data document (JSON, or YAML for
// .yaml/.yml files) into a templating.Value.
package options
