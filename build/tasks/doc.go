// Package tasks runs the build tasks of a web app project.
//
// A Runner is built from the build options and the template data. Every task
// reads its sources through a glob.Set relative to the project root and
// writes into the dist directory:
//
//   - clean empties dist
//   - less-compile compiles each LESS file and autoprefixes it
//   - style-concat compiles LESS, appends plain CSS and writes one combined,
//     autoprefixed stylesheet
//   - css2js turns each stylesheet into a script injecting a style element
//   - html expands #{#path#}# placeholders against the template data
//   - js lints scripts and copies them
//   - images and fonts are placeholders kept for sequence compatibility
//   - copy-misc-files copies every file no other task handles
//
// Default runs clean and every build task in order. Dev watches the source
// tree and re-runs the tasks owning the changed files. LESS compilation,
// prefixing and linting are delegated to external tools through a Toolchain.
package tasks
