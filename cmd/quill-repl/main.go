package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/cli"
	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/parser"
	"github.com/quill-lang/quill/internal/position"
)

const (
	promptMain  = "quill> "
	promptCont  = "  ...> "
	historyFile = ".quill_history"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOutput  = flag.Bool("json", false, "output version in JSON format")
		configPath  = flag.String("config", cli.DefaultConfigFile, "configuration file")
		namespace   = flag.String("namespace", "", "namespace of the session")
		debugMode   = flag.Bool("debug", false, "enable debug mode")
		loadFile    = flag.String("load", "", "load declarations from file before starting REPL")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Quill interactive parser.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nREPL COMMANDS:\n")
		printCommands(os.Stderr)
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		cli.PrintVersion("Quill REPL", *jsonOutput)
		os.Exit(0)
	}

	config, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	if *namespace != "" {
		config.Namespace = *namespace
	}
	config.Debug = config.Debug || *debugMode
	if err := config.CheckRequires(); err != nil {
		cli.ExitWithError("%v", err)
	}

	repl := NewREPL(config, os.Stdout)

	if *loadFile != "" {
		if err := repl.LoadFile(*loadFile); err != nil {
			cli.ExitWithError("failed to load file %s: %v", *loadFile, err)
		}
	}

	os.Exit(repl.Run())
}

// REPL parses declarations and statements against one accumulating file.
type REPL struct {
	session  *ast.File
	maxDepth int
	color    bool
	logger   *cli.Logger
	out      io.Writer
}

func NewREPL(config *cli.Config, out io.Writer) *REPL {
	return &REPL{
		session:  ast.NewFile(config.Namespace, nil),
		maxDepth: config.MaxDepth,
		color:    config.UseColor(os.Stdout),
		logger:   cli.NewLogger(config.Verbose, config.Debug),
		out:      out,
	}
}

// historyPath returns the history file in the user's home directory.
func historyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, historyFile), nil
}

// Run reads input until EOF or :quit and returns the exit code.
func (r *REPL) Run() int {
	info := cli.GetVersionInfo()
	fmt.Fprintf(r.out, "Quill REPL v%s (namespace %s)\n", info.Version, r.session.Namespace)
	fmt.Fprintln(r.out, "Type :help for help, :quit to exit")

	histPath, err := historyPath()
	if err != nil {
		r.logger.Debug("History disabled: %v", err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(completeCommand)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		input, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return 0
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if r.HandleCommand(trimmed) {
				return 0
			}
			continue
		}

		result, err := r.Evaluate(input)
		if err != nil {
			r.printError(input, err)
			continue
		}
		if result != "" {
			fmt.Fprintln(r.out, result)
		}
	}
}

// readInput keeps prompting while the input so far ends inside a code block.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := lexer.Lex([]byte(src)); lexer.IsUnclosedBlock(err) {
			continue
		}
		return src, true
	}
}

var commands = []string{":help", ":quit", ":reset", ":file"}

func completeCommand(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func printCommands(w io.Writer) {
	fmt.Fprintln(w, "  :help, :h          Show this help")
	fmt.Fprintln(w, "  :quit, :q, :exit   Exit REPL")
	fmt.Fprintln(w, "  :reset             Forget all declarations")
	fmt.Fprintln(w, "  :file              Print the session's declarations")
}

// HandleCommand runs a colon command and reports whether to exit.
func (r *REPL) HandleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		fmt.Fprintln(r.out, "REPL Commands:")
		printCommands(r.out)
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Lines starting with use, fn or public declare; anything else is parsed as statements.")
	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case ":reset":
		r.session = ast.NewFile(r.session.Namespace, nil)
		fmt.Fprintln(r.out, "Session reset")
	case ":file":
		fmt.Fprint(r.out, ast.PrettyPrint(r.session))
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.out, "Type :help for available commands")
	}

	return false
}

// Evaluate parses one input. Declarations are added to the session; other
// input is parsed as statements and echoed in canonical form.
func (r *REPL) Evaluate(input string) (string, error) {
	r.logger.Debug("Evaluating %q", input)

	result, err := lexer.Lex([]byte(input))
	if err != nil {
		return "", err
	}

	if startsDeclaration(result) {
		return r.declare(result)
	}

	statements, err := parser.New(result, r.session, parser.WithMaxDepth(r.maxDepth)).ParseStatements()
	if err != nil {
		return "", err
	}

	lines := make([]string, len(statements))
	for i, stmt := range statements {
		lines[i] = stmt.String()
	}
	return strings.Join(lines, "\n"), nil
}

// declare parses into a scratch file so a failure leaves the session untouched.
func (r *REPL) declare(result *lexer.Result) (string, error) {
	fragment := ast.NewFile(r.session.Namespace, result.CodeBlocks)
	for alias, use := range r.session.Uses {
		fragment.Uses[alias] = use
	}

	if err := parser.New(result, fragment, parser.WithMaxDepth(r.maxDepth)).ParseDeclarations(); err != nil {
		return "", err
	}

	var declared []string
	for alias, use := range fragment.Uses {
		if r.session.Uses[alias] != use {
			r.session.Uses[alias] = use
			declared = append(declared, "use "+use.Identifier)
		}
	}
	for name, fn := range fragment.Functions {
		r.session.Functions[name] = fn
		declared = append(declared, "fn "+name)
	}
	sort.Strings(declared)

	return strings.Join(declared, "\n"), nil
}

func startsDeclaration(result *lexer.Result) bool {
	for _, tok := range result.Tokens {
		if tok.Token.Kind == lexer.TokenComment {
			continue
		}
		return tok.Token.IsKeyword(lexer.KeywordUse) ||
			tok.Token.IsKeyword(lexer.KeywordFunction) ||
			tok.Token.IsKeyword(lexer.KeywordPublic)
	}
	return false
}

// LoadFile adds a file's declarations to the session.
func (r *REPL) LoadFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	result, err := lexer.Lex(content)
	if err == nil {
		_, err = r.declare(result)
	}
	if f, ok := diagnostic.AsFailure(err); ok {
		return errors.New(diagnostic.Render(f, position.NewSourceFile(filename, string(content)), false))
	}
	if err != nil {
		return err
	}

	r.logger.Info("Loaded %s: %d functions", filename, len(r.session.Functions))
	return nil
}

func (r *REPL) printError(input string, err error) {
	if f, ok := diagnostic.AsFailure(err); ok {
		fmt.Fprint(r.out, diagnostic.Render(f, position.NewSourceFile("", input), r.color))
		return
	}
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
