package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pthm/bisquit"
	"github.com/pthm/bisquit/lib/inspect"
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
	case "lint":
		if err := runLint(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "tree":
		if err := runTree(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("bisquit version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bisquit - declarative event dispatch for server-rendered pages

Usage:
  bisquit <command> [arguments]

Commands:
  lint [files]          Check bisquit markup in HTML files ("-" reads stdin)
  tree [files]          Draw the component hierarchy of HTML files
  version               Print version
  help                  Show this help

Options for lint:
  --config <file>       Page configuration; strict_markup turns warnings into errors
  --verbose             Log each diagnostic as it is found

Examples:
  bisquit lint templates/index.html       Lint one page
  curl -s localhost:8080 | bisquit lint -  Lint a rendered page
  bisquit tree templates/index.html       Show which components own which markers`)
}

type lintFlags struct {
	config  string
	verbose bool
	files   []string
}

func parseLintFlags(args []string) (lintFlags, error) {
	var f lintFlags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--config needs a file")
			}
			i++
			f.config = args[i]
		case "--verbose":
			f.verbose = true
		default:
			f.files = append(f.files, args[i])
		}
	}
	if len(f.files) == 0 {
		f.files = []string{"-"}
	}
	return f, nil
}

func runLint(args []string) error {
	flags, err := parseLintFlags(args)
	if err != nil {
		return err
	}

	cfg := bisquit.DefaultConfig()
	if flags.config != "" {
		if cfg, err = bisquit.LoadConfig(flags.config); err != nil {
			return err
		}
	}

	logger := newLogger(flags.verbose)
	defer logger.Sync()

	in := inspect.New(inspect.Options{Logger: logger})
	var failed, total int
	for _, path := range flags.files {
		ds, err := in.LintFile(path)
		if err != nil {
			return err
		}
		for _, d := range ds {
			fmt.Printf("%s: %s\n", path, d)
		}
		total += len(ds)
		if inspect.HasErrors(ds) || (cfg.StrictMarkup && len(ds) > 0) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d finding(s), %d file(s) failed", total, failed)
	}
	return nil
}

func runTree(args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		doc, err := inspect.ParseFile(path)
		if err != nil {
			return err
		}
		if len(args) > 1 {
			fmt.Println(path)
		}
		fmt.Println(inspect.Tree(doc))
	}
	return nil
}

// newLogger writes to stderr, colored when stderr is a terminal.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	if isatty.IsTerminal(os.Stderr.Fd()) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
