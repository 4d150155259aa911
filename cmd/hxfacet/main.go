package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pthm/hxfacet"
	"github.com/pthm/hxfacet/lib/rules"
	"github.com/zoobzio/capitan"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "apply":
		if err := runApply(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("hxfacet version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hxfacet - CSS class binding for Go components

Usage:
  hxfacet <command> [arguments]

Commands:
  apply    Apply a model document to a rule table and print the element
  watch    Like apply, re-applying whenever the model file is written
  version  Print version
  help     Show this help

Options for apply and watch:
  -rules FILE     Rule table (YAML or JSON)
  -model FILE     Model document (JSON object)
  -markup HTML    Element markup (default <div></div>)
  -v              Print class signals

Examples:
  hxfacet apply -rules classes.yaml -model state.json
  hxfacet watch -rules classes.yaml -model state.json -markup '<li class="item"></li>'`)
}

type options struct {
	rules   string
	model   string
	markup  string
	verbose bool
}

func parseOptions(name string, args []string) (*options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.rules, "rules", "", "rule table file")
	fs.StringVar(&opts.model, "model", "", "model JSON file")
	fs.StringVar(&opts.markup, "markup", "<div></div>", "element markup")
	fs.BoolVar(&opts.verbose, "v", false, "print class signals")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.rules == "" || opts.model == "" {
		return nil, fmt.Errorf("%s: -rules and -model are required", name)
	}
	return opts, nil
}

// setup loads the rule table and builds the facet on the markup's element.
func setup(opts *options) (*hxfacet.CSSFacet, error) {
	data, err := os.ReadFile(opts.rules)
	if err != nil {
		return nil, err
	}
	table, err := rules.Load(data, rules.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.rules, err)
	}
	el, err := hxfacet.ParseElement(opts.markup)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		hookSignals()
	}
	return hxfacet.NewCSSFacet(table, el, hxfacet.WithErrorHandler(func(err error) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	})), nil
}

func runApply(args []string) error {
	opts, err := parseOptions("apply", args)
	if err != nil {
		return err
	}
	facet, err := setup(opts)
	if err != nil {
		return err
	}
	defer capitan.Shutdown()

	doc, err := os.ReadFile(opts.model)
	if err != nil {
		return err
	}

	// Paths missing from the document are applied as nil so every rule
	// settles.
	var batch []hxfacet.PathValue
	for _, path := range facet.Table().Paths() {
		value, _ := hxfacet.ValueAt(string(doc), path)
		batch = append(batch, hxfacet.PathValue{Path: path, Value: value})
	}
	// Per-path errors were already reported by the error handler.
	_ = facet.SetValues(batch...)

	fmt.Println(facet.Element().String())
	return nil
}

func hookSignals() {
	capitan.Hook(hxfacet.CSSClassAdded, func(_ context.Context, e *capitan.Event) {
		path, _ := hxfacet.KeyPath.From(e)
		class, _ := hxfacet.KeyClass.From(e)
		fmt.Fprintf(os.Stderr, "+ %s (%s)\n", class, path)
	})
	capitan.Hook(hxfacet.CSSClassRemoved, func(_ context.Context, e *capitan.Event) {
		path, _ := hxfacet.KeyPath.From(e)
		class, _ := hxfacet.KeyClass.From(e)
		fmt.Fprintf(os.Stderr, "- %s (%s)\n", class, path)
	})
	capitan.Hook(hxfacet.CSSResolveFailed, func(_ context.Context, e *capitan.Event) {
		path, _ := hxfacet.KeyPath.From(e)
		msg, _ := hxfacet.KeyError.From(e)
		fmt.Fprintf(os.Stderr, "! %s: %s\n", path, msg)
	})
}
