// Package repl runs the mako read-eval-print loop.
//
// Every line read is lexed, parsed and evaluated as a complete program against
// a root environment that lives as long as the loop, so bindings made on one
// line are visible on the next. Lines starting with ':' are REPL commands:
//
//	:quit           leave the loop
//	:tokens <src>   print the token stream of src
//	:ast <src>      print the parsed and rendered program
//	:env            list the root bindings
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/metaphox/mako-lang/ast"
	"github.com/metaphox/mako-lang/evaluator"
	"github.com/metaphox/mako-lang/lexer"
	"github.com/metaphox/mako-lang/object"
	"github.com/metaphox/mako-lang/parser"
)

// DefaultPrompt is shown before each line unless WithPrompt says otherwise.
const DefaultPrompt = ">> "

// LineReader shows a prompt and returns the next line without its newline. It
// returns io.EOF at end of input. *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// HistoryAppender is implemented by readers that keep a line history, such as
// *liner.State. Start records every non-empty line through it.
type HistoryAppender interface {
	AppendHistory(item string)
}

// Scanner is a LineReader over a plain io.Reader. The prompt is written to w.
type Scanner struct {
	sc *bufio.Scanner
	w  io.Writer
}

// MaxLineSize is the longest line a Scanner accepts.
const MaxLineSize = 16 << 20

// NewScanner returns a Scanner reading lines from r and echoing prompts to w.
// w may be nil to suppress prompts.
func NewScanner(r io.Reader, w io.Writer) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Scanner{sc: sc, w: w}
}

// Prompt implements LineReader.
func (s *Scanner) Prompt(prompt string) (string, error) {
	if s.w != nil {
		if _, err := io.WriteString(s.w, prompt); err != nil {
			return "", err
		}
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

type options struct {
	prompt string
	banner string
	env    *object.Environment
}

// Option configures Start.
type Option func(*options)

// WithPrompt replaces DefaultPrompt.
func WithPrompt(p string) Option { return func(o *options) { o.prompt = p } }

// WithBanner prints b once before the first prompt.
func WithBanner(b string) Option { return func(o *options) { o.banner = b } }

// WithEnvironment evaluates into env instead of a fresh root environment.
func WithEnvironment(env *object.Environment) Option {
	return func(o *options) { o.env = env }
}

// Start reads lines from in until end of input or :quit, writing results and
// diagnostics to out. A line aborted with Ctrl-C is discarded. The only errors
// returned are read and write failures.
func Start(in LineReader, out io.Writer, opts ...Option) error {
	o := options{prompt: DefaultPrompt}
	for _, opt := range opts {
		opt(&o)
	}
	if o.env == nil {
		o.env = object.NewEnvironment()
	}
	if o.banner != "" {
		fmt.Fprintln(out, o.banner)
	}

	history, _ := in.(HistoryAppender)

	for {
		line, err := in.Prompt(o.prompt)
		switch {
		case errors.Is(err, io.EOF):
			_, err = fmt.Fprint(out, "\nBye\n")
			return err
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return fmt.Errorf("repl: read: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if history != nil {
			history.AppendHistory(line)
		}

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := runCommand(strings.TrimSpace(line), out, o.env); quit {
				return nil
			}
			continue
		}

		evalLine(line, out, o.env)
	}
}

// evalLine evaluates one line as a program and prints the result.
func evalLine(line string, out io.Writer, env *object.Environment) {
	program, errs := parser.Parse(lexer.New(line + lexer.Sentinel))
	if len(errs) != 0 {
		printParseErrors(out, errs)
		return
	}

	if evaluated := evaluator.Eval(program, env); evaluated != nil {
		fmt.Fprintln(out, evaluated.Inspect())
	}
}

func runCommand(line string, out io.Writer, env *object.Environment) (quit bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return true

	case ":tokens":
		for _, tok := range lexer.Tokenize(arg + lexer.Sentinel) {
			printToken(out, tok)
		}

	case ":ast":
		program, errs := parser.Parse(lexer.New(arg + lexer.Sentinel))
		if len(errs) != 0 {
			printParseErrors(out, errs)
			return false
		}
		fmt.Fprintln(out, program.String())

	case ":env":
		for _, n := range env.Names() {
			val, _ := env.Get(n)
			fmt.Fprintf(out, "%s = %s\n", n, val.Inspect())
		}

	default:
		fmt.Fprintf(out, "unknown command %s. Commands: :quit :tokens :ast :env\n", name)
	}
	return false
}

func printParseErrors(out io.Writer, errs []string) {
	for _, msg := range errs {
		fmt.Fprintf(out, "\t%s\n", msg)
	}
}

// printToken writes one line of :tokens output: position, type and literal.
func printToken(out io.Writer, tok ast.Token) {
	fmt.Fprintf(out, "%d:%d\t%s\t%q\n", tok.Line, tok.Col, tok.Type, tok.Literal)
}
