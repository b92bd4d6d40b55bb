package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/potools/pluralform/internal/forms"
	"github.com/potools/pluralform/internal/formula"
	"github.com/potools/pluralform/internal/types"
)

type Option struct {
	Expression string `short:"e" long:"expression" description:"[OPTIONAL] Plural selection formula, e.g. 'n != 1'" required:"false"`
	Forms      string `short:"f" long:"plural-forms" description:"[OPTIONAL] Full Plural-Forms header value, e.g. 'nplurals=2; plural=n != 1;'" required:"false"`
	Language   string `short:"l" long:"language" description:"[OPTIONAL] Language tag with a well-known plural rule, e.g. 'ru' or 'pt_BR'" required:"false"`
}

type result struct {
	Count int64 `json:"count"`
	Index int64 `json:"index"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] COUNT..."
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(os.Stdout)
			return 1
		}
	}
	if len(rest) == 0 {
		parser.WriteHelp(os.Stdout)
		return 1
	}

	eval, err := buildEvaluator(opt)
	if err != nil {
		dumpError(err)
		return 1
	}

	results := make([]result, 0, len(rest))
	for _, arg := range rest {
		count, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			log.Printf("invalid count %q: %v", arg, err)
			return 1
		}

		index, err := eval(count)
		if err != nil {
			dumpError(err)
			return 1
		}
		results = append(results, result{Count: count, Index: index})
	}

	if err = dumpJSON(os.Stdout, results); err != nil {
		log.Printf("failed to dump results: %v", err)
		return 1
	}
	return 0
}

func buildEvaluator(opt Option) (func(int64) (int64, error), error) {
	switch {
	case opt.Expression != "":
		expr, err := formula.Parse(opt.Expression)
		if err != nil {
			return nil, err
		}
		return expr.Eval, nil

	case opt.Forms != "":
		pf, err := forms.Parse(opt.Forms)
		if err != nil {
			return nil, err
		}
		return func(n int64) (int64, error) {
			index, err := pf.Index(n)
			return int64(index), err
		}, nil

	case opt.Language != "":
		pf, ok := forms.ForLanguage(opt.Language)
		if !ok {
			return nil, fmt.Errorf("unknown language: %s", opt.Language)
		}
		return func(n int64) (int64, error) {
			index, err := pf.Index(n)
			return int64(index), err
		}, nil

	default:
		return nil, errors.New("one of --expression, --plural-forms or --language is required")
	}
}

func dumpError(err error) {
	var typesErr *types.Error
	if errors.As(err, &typesErr) {
		if _, err = fmt.Fprintln(os.Stderr, typesErr.Error()); err != nil {
			log.Printf("failed to dump error: %v", err)
		}
		if err = dumpJSON(os.Stderr, typesErr.Details()); err != nil {
			log.Printf("failed to dump error as JSON: %v", err)
		}
		return
	}
	log.Print(err)
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
