// Command mako runs mako programs.
//
//	mako                 start the interactive REPL
//	mako FILE            run FILE and print its result
//	mako -e 'SOURCE'     run SOURCE and print its result
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/metaphox/mako-lang/evaluator"
	"github.com/metaphox/mako-lang/internal/config"
	"github.com/metaphox/mako-lang/lexer"
	"github.com/metaphox/mako-lang/object"
	"github.com/metaphox/mako-lang/parser"
	"github.com/metaphox/mako-lang/repl"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mako", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath(), "path to the YAML config file")
	source := fs.String("e", "", "evaluate `source` instead of reading a file")
	prompt := fs.String("prompt", "", "REPL prompt (overrides the config file)")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mako [flags] [FILE]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	if *prompt != "" {
		cfg.Prompt = *prompt
	}
	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("config loaded", slog.String("path", *configPath), slog.String("history", cfg.HistoryFile))

	switch {
	case *source != "" && fs.NArg() > 0:
		fmt.Fprintln(stderr, "mako: -e and FILE are mutually exclusive")
		return exitUsage
	case *source != "":
		return runSource("-e", *source, stdout, stderr, logger)
	case fs.NArg() == 1:
		path := fs.Arg(0)
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "mako: %v\n", err)
			return exitError
		}
		return runSource(path, string(data), stdout, stderr, logger)
	case fs.NArg() > 1:
		fs.Usage()
		return exitUsage
	}

	if stdin != os.Stdin {
		return runRepl(repl.NewScanner(stdin, stdout), stdout, stderr, cfg)
	}
	return runInteractive(cfg, stdout, stderr, logger)
}

// runSource evaluates one program. Parse errors and a runtime error result both
// exit non-zero.
func runSource(name, src string, stdout, stderr io.Writer, logger *slog.Logger) int {
	program, errs := parser.Parse(lexer.New(src))
	if len(errs) != 0 {
		logger.Debug("parse failed", slog.String("source", name), slog.Int("errors", len(errs)))
		for _, msg := range errs {
			fmt.Fprintf(stderr, "\t%s\n", msg)
		}
		return exitError
	}
	logger.Debug("parsed", slog.String("source", name), slog.Int("statements", len(program.Statements)))

	result := evaluator.Eval(program, object.NewEnvironment())
	if errObj, ok := result.(*object.Error); ok {
		fmt.Fprintln(stderr, errObj.Inspect())
		return exitError
	}
	if result != nil {
		fmt.Fprintln(stdout, result.Inspect())
	}
	return exitOK
}

func runRepl(in repl.LineReader, stdout, stderr io.Writer, cfg *config.Config) int {
	if err := repl.Start(in, stdout, repl.WithPrompt(cfg.Prompt)); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

// runInteractive drives the REPL through liner, loading and saving the line
// history around the session.
func runInteractive(cfg *config.Config, stdout, stderr io.Writer, logger *slog.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			n, _ := ln.ReadHistory(f)
			_ = f.Close()
			logger.Debug("history loaded", slog.String("path", cfg.HistoryFile), slog.Int("entries", n))
		}
		defer saveHistory(ln, cfg, logger)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	done := make(chan struct{})
	defer close(done)
	go watchSignals(sigc, done, func() {
		saveHistory(ln, cfg, logger)
		ln.Close()
		os.Exit(130)
	})

	if err := repl.Start(ln, stdout, repl.WithPrompt(cfg.Prompt), repl.WithBanner(cfg.Banner)); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	return exitOK
}

// watchSignals runs onSignal if a signal arrives on sigc before done is closed,
// and returns without running it otherwise.
func watchSignals(sigc <-chan os.Signal, done <-chan struct{}, onSignal func()) {
	select {
	case <-sigc:
		onSignal()
	case <-done:
	}
}

// saveHistory writes the session history, keeping only the newest
// cfg.HistoryLimit entries.
func saveHistory(ln *liner.State, cfg *config.Config, logger *slog.Logger) {
	if cfg.HistoryFile == "" {
		return
	}
	var buf bytes.Buffer
	if _, err := ln.WriteHistory(&buf); err != nil {
		logger.Warn("history not saved", slog.String("path", cfg.HistoryFile), slog.Any("err", err))
		return
	}
	entries := lastLines(buf.String(), cfg.HistoryLimit)

	if err := os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0o755); err != nil {
		logger.Warn("history not saved", slog.String("path", cfg.HistoryFile), slog.Any("err", err))
		return
	}
	if err := os.WriteFile(cfg.HistoryFile, []byte(strings.Join(entries, "")), 0o600); err != nil {
		logger.Warn("history not saved", slog.String("path", cfg.HistoryFile), slog.Any("err", err))
		return
	}
	logger.Debug("history saved", slog.String("path", cfg.HistoryFile), slog.Int("entries", len(entries)))
}

// lastLines returns the final n newline-terminated lines of s.
func lastLines(s string, n int) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".makorc.yaml")
}
