// Binary expand_template substitutes #{#path#}# placeholders
// in one file with values from a template data file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/webapp_boilerplate/options"
	"github.com/byte4ever/webapp_boilerplate/stamper"
	"github.com/byte4ever/webapp_boilerplate/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run(args []string) error {
	const errCtx = "expand_template"

	fs := flag.NewFlagSet("expand_template", flag.ContinueOnError)

	var stampInfoFiles arrayFlags

	var (
		output   string
		tpl      string
		dataFile string
		startTag string
		endTag   string
		verbose  bool
	)

	fs.Var(
		&stampInfoFiles,
		"stamp_info_file",
		"Stamp info file path, exposed as stamp.KEY (repeatable)",
	)

	fs.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty); {KEY} is replaced by stamp values",
	)

	fs.StringVar(
		&tpl, "template", "",
		"Input template file path (stdin if empty)",
	)

	fs.StringVar(
		&dataFile, "data", "template-data.json",
		"Template data file (.json, .yaml or .yml)",
	)

	fs.StringVar(
		&startTag, "start_tag", templating.DefaultStartTag,
		"Start tag for template placeholders",
	)

	fs.StringVar(
		&endTag, "end_tag", templating.DefaultEndTag,
		"End tag for template placeholders",
	)

	fs.BoolVar(
		&verbose, "verbose", false,
		"Log every replacement",
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	data, err := options.LoadTemplateData(dataFile)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	stamps, err := stamper.LoadStamps(stampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	en := templating.Engine{
		StartTag: startTag,
		EndTag:   endTag,
		Data:     stamper.Merge(data, stamps),
	}

	if verbose {
		en.Observer = func(path string, value templating.Value) {
			slog.Info("replacing", "path", path, "value", value.String())
		}
	}

	if err := en.Expand(tpl, stamper.Expand(stamps, output)); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
