package tasks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/webapp_boilerplate/build/glob"
	"github.com/byte4ever/webapp_boilerplate/stamper"
)

// lessCompile compiles every LESS file into a prefixed
// stylesheet of the same name.
func (ru *Runner) lessCompile(ctx context.Context) ([]string, error) {
	const errCtx = "compiling stylesheets"

	files, err := ru.sources(ru.opts.Paths.Less)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	written := make([]string, 0, len(files))

	for _, fi := range files {
		css, err := ru.tools.CompileLess(ctx, ru.abs(fi))
		if err != nil {
			return written, fmt.Errorf("%s: %s: %w", errCtx, fi.Path, err)
		}

		css, err = ru.tools.Autoprefix(ctx, css, ru.opts.AutoprefixerBrowsers)
		if err != nil {
			return written, fmt.Errorf("%s: %s: %w", errCtx, fi.Path, err)
		}

		dest, err := ru.write(replaceExt(fi.Rel, ".css"), css)
		if err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		written = append(written, dest)
	}

	return written, nil
}

// styleConcat compiles LESS files, keeps CSS files as they
// are and writes them, newline separated, into the
// combined stylesheet.
func (ru *Runner) styleConcat(ctx context.Context) ([]string, error) {
	const errCtx = "concatenating stylesheets"

	files, err := ru.sources(ru.opts.Paths.Less, ru.opts.Paths.CSS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	parts := make([][]byte, 0, len(files))

	for _, fi := range files {
		part, err := ru.stylesheet(ctx, fi)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		parts = append(parts, part)
	}

	css, err := ru.tools.Autoprefix(
		ctx, bytes.Join(parts, []byte("\n")), ru.opts.AutoprefixerBrowsers,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	name := stamper.Expand(ru.stamps, ru.opts.CombinedCSSFile)

	dest, err := ru.write(name, css)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return []string{dest}, nil
}

func (ru *Runner) stylesheet(ctx context.Context, fi glob.File) ([]byte, error) {
	if strings.EqualFold(path.Ext(fi.Path), ".less") {
		css, err := ru.tools.CompileLess(ctx, ru.abs(fi))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fi.Path, err)
		}

		return css, nil
	}

	return ru.read(fi)
}

// css2js writes, for every stylesheet, a script adding it
// to the document head.
func (ru *Runner) css2js(ctx context.Context) ([]string, error) {
	const errCtx = "converting css to js"

	files, err := ru.sources(ru.opts.Paths.CSS)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	written := make([]string, 0, len(files))

	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		css, err := ru.read(fi)
		if err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		script, err := CSSToJS(css)
		if err != nil {
			return written, fmt.Errorf("%s: %s: %w", errCtx, fi.Path, err)
		}

		dest, err := ru.write(replaceExt(fi.Rel, ".js"), script)
		if err != nil {
			return written, fmt.Errorf("%s: %w", errCtx, err)
		}

		written = append(written, dest)
	}

	return written, nil
}

const injectStyle = `(function (doc, cssText) {
    var styleEl = doc.createElement("style");
    doc.getElementsByTagName("head")[0].appendChild(styleEl);
    if (styleEl.styleSheet) {
        if (!styleEl.styleSheet.disabled) {
            styleEl.styleSheet.cssText = cssText;
        }
    } else {
        try {
            styleEl.innerHTML = cssText;
        } catch (ignore) {
            styleEl.innerText = cssText;
        }
    }
}(document, %s));
`

// CSSToJS wraps a stylesheet in a script that injects it
// into the document head as a style element.
func CSSToJS(css []byte) ([]byte, error) {
	literal, err := json.Marshal(string(css))
	if err != nil {
		return nil, fmt.Errorf("encoding css: %w", err)
	}

	return []byte(fmt.Sprintf(injectStyle, literal)), nil
}
