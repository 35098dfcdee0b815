package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/webapp_boilerplate/templating"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid build options")

// Paths holds the source globs of every task. Globs are
// slash separated and relative to the project root.
type Paths struct {
	// Src is the source root, watched in dev mode.
	Src string `json:"src"`

	// Dist is the output directory.
	Dist string `json:"dist"`

	// All matches every source file.
	All string `json:"all"`

	// Ignore matches files no task may build.
	Ignore string `json:"ignore"`

	Less  string `json:"less"`
	CSS   string `json:"css"`
	HTML  string `json:"html"`
	JS    string `json:"js"`
	Image string `json:"image"`
	Fonts string `json:"fonts"`
}

// Tools holds the command lines of the external tools.
// File arguments are appended by the tasks.
type Tools struct {
	Less         []string `json:"less"`
	Autoprefixer []string `json:"autoprefixer"`
	JSHint       []string `json:"jshint"`
}

// Options mirrors build-options.json.
type Options struct {
	Paths Paths `json:"paths"`

	// ConcatStyle selects style-concat instead of
	// less-compile in the default sequence.
	ConcatStyle bool `json:"concat_style"`

	// CombinedCSSFile is the output of style-concat. It
	// may hold {KEY} stamp placeholders.
	CombinedCSSFile string `json:"combined_css_file"`

	// AutoprefixerBrowsers is handed to autoprefixer as
	// its browserslist query.
	AutoprefixerBrowsers []string `json:"AUTOPREFIXER_BROWSERS"`

	ConfigVariableOpen  string `json:"config_variable_open"`
	ConfigVariableClose string `json:"config_variable_close"`

	// Verbose logs every substitution and a size report
	// per task.
	Verbose bool `json:"verbose"`

	// StampInfoFiles are KEY VALUE status files exposed
	// to templates under "stamp".
	StampInfoFiles []string `json:"stamp_info_files"`

	Tools Tools `json:"tools"`
}

// Default returns the options used for absent keys.
func Default() Options {
	return Options{
		Paths: Paths{
			Src:    "src",
			Dist:   "dist",
			All:    "src/**/*",
			Ignore: "src/**/_*",
			Less:   "src/**/*.less",
			CSS:    "src/**/*.css",
			HTML:   "src/**/*.html",
			JS:     "src/**/*.js",
			Image:  "src/**/*.{png,jpg,jpeg,gif,svg,webp,ico}",
			Fonts:  "src/**/*.{eot,ttf,otf,woff,woff2}",
		},
		CombinedCSSFile:      "style.css",
		AutoprefixerBrowsers: []string{"last 2 versions"},
		ConfigVariableOpen:   templating.DefaultStartTag,
		ConfigVariableClose:  templating.DefaultEndTag,
		Tools: Tools{
			Less:         []string{"lessc"},
			Autoprefixer: []string{"postcss", "--use", "autoprefixer"},
			JSHint:       []string{"jshint"},
		},
	}
}

// Load reads a build options file over Default.
func Load(path string) (Options, error) {
	const errCtx = "loading build options"

	opts := Default()

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := json.Unmarshal(content, &opts); err != nil {
		return Options{}, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	return opts, nil
}

// Validate checks that the delimiters can be scanned and
// that the dist directory is safe to clean.
func (op Options) Validate() error {
	switch {
	case op.ConfigVariableOpen == "" || op.ConfigVariableClose == "":
		return fmt.Errorf("%w: empty config variable delimiter", ErrInvalid)
	case op.ConfigVariableOpen == op.ConfigVariableClose:
		return fmt.Errorf(
			"%w: config variable delimiters are both %q",
			ErrInvalid, op.ConfigVariableOpen,
		)
	case strings.TrimSpace(op.Paths.Dist) == "":
		return fmt.Errorf("%w: empty dist path", ErrInvalid)
	}

	dist := filepath.Clean(op.Paths.Dist)
	if dist == "." || dist == string(filepath.Separator) || escapes(dist) {
		return fmt.Errorf(
			"%w: dist path %q would clean the project",
			ErrInvalid, op.Paths.Dist,
		)
	}

	if op.Paths.Src != "" {
		rel, err := filepath.Rel(dist, filepath.Clean(op.Paths.Src))
		if err == nil && !escapes(rel) {
			return fmt.Errorf(
				"%w: dist %q holds the sources %q",
				ErrInvalid, op.Paths.Dist, op.Paths.Src,
			)
		}
	}

	if op.ConcatStyle && op.CombinedCSSFile == "" {
		return fmt.Errorf("%w: empty combined_css_file", ErrInvalid)
	}

	return nil
}

// escapes reports whether a cleaned relative path leaves
// its base directory.
func escapes(pa string) bool {
	return pa == ".." || strings.HasPrefix(pa, ".."+string(filepath.Separator))
}

// Engine returns a templating engine using the configured
// delimiters.
func (op Options) Engine(data templating.Value) *templating.Engine {
	return &templating.Engine{
		StartTag: op.ConfigVariableOpen,
		EndTag:   op.ConfigVariableClose,
		Data:     data,
	}
}

// LoadTemplateData reads the template data document. YAML
// is used for .yaml and .yml files, JSON otherwise. The
// document must be a mapping.
func LoadTemplateData(path string) (templating.Value, error) {
	const errCtx = "loading template data"

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return templating.Value{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	var raw interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &raw)
	default:
		err = json.Unmarshal(content, &raw)
	}

	if err != nil {
		return templating.Value{}, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	data, err := templating.FromAny(raw)
	if err != nil {
		return templating.Value{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if data.Kind() != templating.KindMapping {
		return templating.Value{}, fmt.Errorf(
			"%s: %s holds a %s, want a mapping",
			errCtx, path, data.Kind(),
		)
	}

	return data, nil
}
