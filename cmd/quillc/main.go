// Package main provides the entry point for the Quill front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/cli"
	"github.com/quill-lang/quill/internal/diagnostic"
	qerrors "github.com/quill-lang/quill/internal/errors"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/parser"
	"github.com/quill-lang/quill/internal/position"
	"github.com/quill-lang/quill/internal/watch"
)

const watchDebounce = 100 * time.Millisecond

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		configPath  = flag.String("config", "", "configuration file (default ./"+cli.DefaultConfigFile+" if present)")
		namespace   = flag.String("namespace", "", "namespace of the input files")
		maxDepth    = flag.Int("max-depth", 0, "maximum expression nesting depth")
		color       = flag.String("color", "", "colour diagnostics: auto|always|never")
		dumpTokens  = flag.Bool("tokens", false, "print the token stream with spans")
		doParse     = flag.Bool("parse", false, "parse the input and print the AST")
		watchMode   = flag.Bool("watch", false, "re-check input files when they change")
		initConfig  = flag.Bool("init", false, "write the effective configuration to the config file and exit")
		verbose     = flag.Bool("verbose", false, "enable verbose output")
		debugMode   = flag.Bool("debug", false, "enable debug output")
	)

	flag.Usage = showUsage
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("Quill Compiler", *jsonOutput)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	path := *configPath
	if path == "" {
		path = cli.DefaultConfigFile
	}
	config, err := cli.LoadConfig(path)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// flags override the configuration file
	config.Verbose = config.Verbose || *verbose
	config.Debug = config.Debug || *debugMode
	if *namespace != "" {
		config.Namespace = *namespace
	}
	if *maxDepth != 0 {
		config.MaxDepth = *maxDepth
	}
	if *color != "" {
		config.Color = *color
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := config.CheckRequires(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if *initConfig {
		if err := config.SaveConfig(path); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input file specified")
		showUsage()
		os.Exit(1)
	}

	c := &compiler{
		namespace: config.Namespace,
		maxDepth:  config.MaxDepth,
		tokens:    *dumpTokens,
		parse:     *doParse,
		color:     config.UseColor(os.Stderr),
		logger:    cli.NewLogger(config.Verbose, config.Debug),
		out:       os.Stdout,
		errOut:    os.Stderr,
	}
	c.logger.Debug("Configuration: %+v", *config)

	files, err := sourceInputs(args)
	if err != nil {
		log.Fatalf("Input error: %v", err)
	}
	failed := c.compileAll(files)

	if *watchMode {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := c.watch(ctx, args); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watch failed: %v", err)
		}
		return
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("Quill Compiler - lexer and parser front end")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    quillc [OPTIONS] <INPUT_FILE|DIR>...")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version        Show version information")
	fmt.Println("    --json           Output version in JSON format")
	fmt.Println("    --help           Show this help message")
	fmt.Println("    --config         Configuration file (default ./quill.json)")
	fmt.Println("    --namespace      Namespace of the input files (default Main)")
	fmt.Println("    --max-depth      Maximum expression nesting depth (default 256)")
	fmt.Println("    --color          Colour diagnostics: auto|always|never")
	fmt.Println("    --tokens         Print the token stream with spans")
	fmt.Println("    --parse          Parse the input and print the AST")
	fmt.Println("    --watch          Re-check input files when they change")
	fmt.Println("    --init           Write the effective configuration and exit")
	fmt.Println("    --verbose        Enable verbose output")
	fmt.Println("    --debug          Enable debug output")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    quillc main.ql")
	fmt.Println("    quillc --parse --namespace App main.ql")
	fmt.Println("    quillc --watch src")
	fmt.Println("    quillc --init --namespace App")
}

// compiler checks source files with one set of options.
type compiler struct {
	namespace string
	maxDepth  int
	tokens    bool
	parse     bool
	color     bool

	logger *cli.Logger
	out    io.Writer
	errOut io.Writer
}

// compileAll checks every file and returns how many failed.
func (c *compiler) compileAll(files []string) int {
	failed := 0
	for _, filename := range files {
		if err := c.compileFile(filename); err != nil {
			if _, ok := diagnostic.AsFailure(err); !ok {
				c.logger.Error("%v", err)
			}
			failed++
		}
	}
	return failed
}

// compileFile lexes and parses one file. Source failures are rendered to
// errOut before being returned.
func (c *compiler) compileFile(filename string) error {
	source, err := os.ReadFile(filename)
	if err != nil {
		return qerrors.ReadFailed(filename, err)
	}

	c.logger.Info("Compiling %s...", filepath.Base(filename))
	start := time.Now()

	result, err := lexer.Lex(source)
	if err != nil {
		return c.report(filename, source, err)
	}
	c.logger.Debug("Lexed %d tokens, %d code blocks", len(result.Tokens), len(result.CodeBlocks))

	if c.tokens {
		for _, tok := range result.Tokens {
			fmt.Fprintln(c.out, tok)
		}
	}

	file, err := parser.ParseFile(result, c.namespace, parser.WithMaxDepth(c.maxDepth))
	if err != nil {
		return c.report(filename, source, err)
	}

	if c.parse {
		fmt.Fprint(c.out, ast.PrettyPrint(file))
	}

	c.logger.Info("Parsed %s: %d uses, %d functions (%v)",
		filepath.Base(filename), len(file.Uses), len(file.Functions), time.Since(start).Round(time.Microsecond))
	return nil
}

func (c *compiler) report(filename string, source []byte, err error) error {
	if failure, ok := diagnostic.AsFailure(err); ok {
		fmt.Fprint(c.errOut, diagnostic.Render(failure, position.NewSourceFile(filename, string(source)), c.color))
	}
	return err
}

// sourceInputs expands directory arguments into the .ql files directly
// inside them. Other arguments are passed through unchanged.
func sourceInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, qerrors.ReadFailed(arg, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && watch.SourceFiles(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

// watchMatcher accepts changes to the named files and to any source file
// directly inside the named directories. It also returns the directories
// that must be watched.
func watchMatcher(args []string) (func(string) bool, []string, error) {
	var matchers []func(string) bool
	dirs := make(map[string]bool)

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, nil, qerrors.WatchFailed(arg, err)
		}

		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			dir := abs
			dirs[dir] = true
			matchers = append(matchers, func(path string) bool {
				return filepath.Dir(filepath.Clean(path)) == dir && watch.SourceFiles(path)
			})
			continue
		}

		// editors often replace files, so watch the directory
		dirs[filepath.Dir(abs)] = true
		matchers = append(matchers, watch.SameFile(abs))
	}

	watched := make([]string, 0, len(dirs))
	for dir := range dirs {
		watched = append(watched, dir)
	}
	sort.Strings(watched)

	return func(path string) bool {
		for _, match := range matchers {
			if match(path) {
				return true
			}
		}
		return false
	}, watched, nil
}

// watch re-checks inputs as they change until ctx is cancelled.
func (c *compiler) watch(ctx context.Context, args []string) error {
	match, dirs, err := watchMatcher(args)
	if err != nil {
		return err
	}

	w, err := watch.New(match)
	if err != nil {
		return qerrors.WatchFailed(args[0], err)
	}
	defer w.Close()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return qerrors.WatchFailed(dir, err)
		}
	}

	c.logger.Warn("Watching %d path(s) for changes, press Ctrl+C to stop", len(args))

	return w.Run(ctx, watchDebounce, func(changed []string) {
		if failed := c.compileAll(changed); failed == 0 {
			c.logger.Info("%d file(s) OK", len(changed))
		}
	})
}
