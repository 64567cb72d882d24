/*
Epitree starts an interactive episodic-logic reasoning session.

It builds an empty knowledge tree, optionally preloads a program file of
fact and rule statements, and then reads further statements from stdin
until the user quits. Every line is one of:

  - a bare ground-fact statement ("brown.is!happy"), inserted immediately
  - "? " followed by a query statement, reporting whether it is present
  - ":rule" followed by comma-separated prior patterns, "->", and
    comma-separated posterior statements, registering a bindable rule
  - ":run", firing every registered rule to a fixed point
  - ":stats", printing node/symbol/depth counts
  - ":display", printing the tree's depth-first golden display format
  - ":bindings" followed by a pattern, printing every tree position the
    pattern matches and the variable assignment it demands there
  - ":call" followed by "markerPath | callStatement | priors -> posteriors",
    the one-shot "function" convenience: inserts callStatement, applies the
    priors/posteriors rule once, then detaches markerPath's subtree
  - ":quit", ending the session

Usage:

	epitree [flags]

The flags are:

	-v, --version
		Print the current version and exit.

	-p, --program FILE
		Preload the given file of statements (one per line, same syntax as
		interactive input) before reading further input.

	-d, --direct
		Force reading directly from stdin instead of using GNU-readline-style
		editing, even when attached to a terminal.

	-c, --command COMMANDS
		Run the given line(s) immediately at start, separated by ";", then
		continue reading further input.

	--config FILE
		Load CLI settings (iteration cap, prompt, history file, rule files
		to preload before --program) from the given TOML file. Defaults to
		econfig.Default() if not given.
*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/epitree"
	"github.com/dekarrin/epitree/internal/binding"
	"github.com/dekarrin/epitree/internal/econfig"
	"github.com/dekarrin/epitree/internal/replio"
	"github.com/dekarrin/epitree/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota
	// ExitRunError indicates an unsuccessful program execution due to a
	// problem while processing statements.
	ExitRunError
	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session.
	ExitInitError
)

const outputWidth = 80

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Print the current version and exit")
	programFile  = pflag.StringP("program", "p", "", "Preload this file of statements before reading further input")
	forceDirect  = pflag.BoolP("direct", "d", false, "Force direct stdin reading instead of GNU-readline-style editing")
	startCommand = pflag.StringP("command", "c", "", "Run the given statement(s) immediately at start, separated by ';'")
	configFile   = pflag.String("config", "", "Load CLI settings from the given TOML file")
	traceLogging = pflag.Bool("trace", false, "Log one line per rule application during :run")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := econfig.Default()
	if *configFile != "" {
		loaded, err := econfig.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	eng := epitree.New(log.New(os.Stderr, "epitree: ", log.LstdFlags))
	eng.SetMaxIterations(cfg.MaxIterations)
	eng.SetTraceLogging(*traceLogging)

	for _, rulePath := range cfg.RulePaths {
		if err := runProgramFile(eng, rulePath); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	if *programFile != "" {
		if err := runProgramFile(eng, *programFile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	reader, closeReader, err := newReader(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer closeReader()

	if *startCommand != "" {
		for _, line := range strings.Split(*startCommand, ";") {
			if err := dispatch(eng, line); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				returnCode = ExitRunError
				return
			}
		}
	}

	if err := repl(eng, reader); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}

func newReader(cfg econfig.Config) (replio.Reader, func(), error) {
	useReadline := !*forceDirect && isatty.IsTerminal(os.Stdin.Fd())
	if useReadline {
		ir, err := replio.NewInteractiveReader(cfg.Prompt, cfg.HistoryFile)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing interactive input: %w", err)
		}
		return ir, func() { ir.Close() }, nil
	}
	dr := replio.NewDirectReader(os.Stdin)
	return dr, func() { dr.Close() }, nil
}

func runProgramFile(eng *epitree.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open program file %q: %w", path, err)
	}
	defer f.Close()

	scanner := replio.NewDirectReader(f)
	for {
		line, err := scanner.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if err := dispatch(eng, line); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func repl(eng *epitree.Engine, reader replio.Reader) error {
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				fmt.Println("Goodbye")
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == ":quit" {
			fmt.Println("Goodbye")
			return nil
		}
		if err := dispatch(eng, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
	}
}

func dispatch(eng *epitree.Engine, line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil
	case line == ":run":
		return eng.Run()
	case line == ":stats":
		printStats(eng)
		return nil
	case line == ":display":
		fmt.Print(eng.Tree().String())
		return nil
	case strings.HasPrefix(line, "? "):
		stmt := strings.TrimSpace(strings.TrimPrefix(line, "? "))
		fmt.Printf("%t\n", eng.Query(stmt))
		return nil
	case strings.HasPrefix(line, ":rule "):
		return registerRuleLine(eng, strings.TrimPrefix(line, ":rule "))
	case strings.HasPrefix(line, ":bindings "):
		pattern := strings.TrimSpace(strings.TrimPrefix(line, ":bindings "))
		return printBindings(eng, pattern)
	case strings.HasPrefix(line, ":call "):
		return callFunctionLine(eng, strings.TrimPrefix(line, ":call "))
	default:
		return eng.AddFact(line)
	}
}

func registerRuleLine(eng *epitree.Engine, body string) error {
	parts := strings.SplitN(body, "->", 2)
	if len(parts) != 2 {
		return fmt.Errorf("rule must contain '->' separating priors from posteriors: %q", body)
	}
	priors := splitTrimmed(parts[0])
	posteriors := splitTrimmed(parts[1])
	if len(priors) == 0 || len(posteriors) == 0 {
		return fmt.Errorf("rule must have at least one prior and one posterior: %q", body)
	}
	eng.RegisterBindableImplication(priors, posteriors)
	return nil
}

func callFunctionLine(eng *epitree.Engine, body string) error {
	fields := strings.SplitN(body, "|", 3)
	if len(fields) != 3 {
		return fmt.Errorf("call must be \"markerPath | callStatement | priors -> posteriors\": %q", body)
	}
	markerPath := strings.TrimSpace(fields[0])
	callStatement := strings.TrimSpace(fields[1])

	ruleParts := strings.SplitN(fields[2], "->", 2)
	if len(ruleParts) != 2 {
		return fmt.Errorf("call's rule must contain '->' separating priors from posteriors: %q", fields[2])
	}
	priors := splitTrimmed(ruleParts[0])
	posteriors := splitTrimmed(ruleParts[1])
	if len(priors) == 0 || len(posteriors) == 0 {
		return fmt.Errorf("call's rule must have at least one prior and one posterior: %q", fields[2])
	}

	triggered, err := eng.CallFunction(priors, posteriors, callStatement, markerPath)
	if err != nil {
		return err
	}
	fmt.Printf("triggered=%t\n", triggered)
	return nil
}

func splitTrimmed(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printBindings(eng *epitree.Engine, pattern string) error {
	matches, err := binding.BindStatement(pattern, eng.Tree())
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("(no matches)")
		return nil
	}

	data := [][]string{{"PATH", "ASSIGNMENT"}}
	for _, m := range matches {
		data = append(data, []string{m.Path, formatAssignment(eng, m.Assignment)})
	}

	output := rosed.Edit("").
		InsertTableOpts(0, data, outputWidth, rosed.Options{TableHeaders: true}).
		String()
	fmt.Println(output)
	return nil
}

func formatAssignment(eng *epitree.Engine, asn binding.Assignment) string {
	var parts []string
	for _, varSID := range asn.Keys() {
		varSym, _ := eng.Tree().Symbols.Resolve(varSID)
		valSym, _ := eng.Tree().Symbols.Resolve(asn[varSID])
		parts = append(parts, fmt.Sprintf("%s=%s", varSym.Display(), valSym.Display()))
	}
	return strings.Join(parts, ", ")
}

func printStats(eng *epitree.Engine) {
	nodeCount, symbolCount, maxDepth := eng.Tree().Stats()

	data := [][]string{
		{"METRIC", "VALUE"},
		{"nodes", fmt.Sprintf("%d", nodeCount)},
		{"symbols", fmt.Sprintf("%d", symbolCount)},
		{"max depth", fmt.Sprintf("%d", maxDepth)},
	}
	tableOpts := rosed.Options{TableHeaders: true}

	output := rosed.Edit("").
		InsertTableOpts(0, data, outputWidth, tableOpts).
		String()
	fmt.Println(output)
}
