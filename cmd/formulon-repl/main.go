/*
Formulon-repl starts an interactive formulon calculator session.

It reads expressions from stdin, one per line, compiles and evaluates each
with the formulon library, and prints the result. An optional TOML bindings
file can declare named variables and constants available to every
expression.

Usage:

	formulon-repl [flags]

The flags are:

	-v, --version
		Give the current version of formulon and then exit.

	-b, --bindings FILE
		Load a TOML file declaring [variables] and [constants] tables into
		the binding table used for every expression.

	-n, --natural-log
		Make the "log" builtin resolve to the natural logarithm instead of
		base-10.

	-a, --left-assoc
		Make "**" left-associative instead of the default right-associative
		behavior.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline-based routines for reading input even if launched in a tty
		with stdin and stdout.

Once a session has started, each line is treated as an expression and
evaluated immediately. A line of the form "name = expr" assigns the result of
expr to a bound variable named name, usable in subsequent expressions.
Lines beginning with ":" are REPL directives:

	:ast EXPR
		Compile EXPR and pretty-print its AST instead of evaluating it.

	:diff VAR EXPR
		Compile EXPR, differentiate it with respect to the bound variable
		VAR, and pretty-print the resulting derivative AST.

	:quit
		Exit the session.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/dekarrin/formulon"
	"github.com/dekarrin/formulon/internal/input"
	"github.com/dekarrin/formulon/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitREPLError indicates an unsuccessful program execution due to a
	// problem while reading or evaluating input.
	ExitREPLError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading the bindings file.
	ExitInitError
)

var (
	returnCode    int     = ExitSuccess
	flagVersion   *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	bindingsFile  *string = pflag.StringP("bindings", "b", "", "A TOML file declaring [variables] and [constants] tables to bind into every expression")
	naturalLog    *bool   = pflag.BoolP("natural-log", "n", false, `Make the "log" builtin resolve to the natural logarithm instead of base-10`)
	leftAssoc     *bool   = pflag.BoolP("left-assoc", "a", false, `Make "**" left-associative instead of right-associative`)
	forceDirect   *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

// bindingsConfig is the shape of the TOML bindings file: a flat table of
// named scalars under [variables] (mutable via REPL assignment) and under
// [constants] (bound once, at startup, and not reassignable).
type bindingsConfig struct {
	Variables map[string]float64 `toml:"variables"`
	Constants map[string]float64 `toml:"constants"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	opts := compileOptions()

	vars, bindings, err := loadBindings(*bindingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	reader, closeReader, err := newReader(*forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer closeReader()

	if err := runLoop(reader, vars, bindings, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitREPLError
		return
	}
}

func compileOptions() []formulon.Option {
	var opts []formulon.Option
	if *naturalLog {
		opts = append(opts, formulon.WithNaturalLog())
	}
	if *leftAssoc {
		opts = append(opts, formulon.WithLeftAssocExponent())
	}
	return opts
}

// loadBindings reads the TOML bindings file (if any) and builds the
// formulon.Bindings table from it, returning the live map of mutable
// variable storage (keyed by name) so REPL assignment can update it.
func loadBindings(path string) (map[string]*float64, *formulon.Bindings, error) {
	vars := make(map[string]*float64)
	b := formulon.NewBindings()

	if path == "" {
		return vars, b, nil
	}

	var cfg bindingsConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, nil, fmt.Errorf("load bindings file: %w", err)
	}

	for name, v := range cfg.Constants {
		val := v
		b.Variable(name, &val)
	}
	for name, v := range cfg.Variables {
		val := v
		vars[name] = &val
		b.Variable(name, &val)
	}

	return vars, b, nil
}

// commandReader is the minimal interface runLoop needs; both
// input.DirectCommandReader and input.InteractiveCommandReader satisfy it.
type commandReader interface {
	ReadCommand() (string, error)
	Close() error
}

func newReader(direct bool) (commandReader, func(), error) {
	useDirect := direct || !isatty.IsTerminal(os.Stdin.Fd())

	if useDirect {
		r := input.NewDirectReader(os.Stdin)
		r.AllowBlank(false)
		return r, func() { r.Close() }, nil
	}

	r, err := input.NewInteractiveReader()
	if err != nil {
		return nil, nil, fmt.Errorf("start interactive reader: %w", err)
	}
	r.AllowBlank(false)
	return r, func() { r.Close() }, nil
}

func runLoop(r commandReader, vars map[string]*float64, bindings *formulon.Bindings, opts []formulon.Option) error {
	for {
		line, err := r.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == ":quit" {
			return nil
		}

		if strings.HasPrefix(line, ":ast ") {
			printAST(strings.TrimPrefix(line, ":ast "), bindings, opts)
			continue
		}

		if strings.HasPrefix(line, ":diff ") {
			printDiff(strings.TrimPrefix(line, ":diff "), vars, bindings, opts)
			continue
		}

		if name, expr, ok := splitAssignment(line); ok {
			evalAssignment(name, expr, vars, bindings, opts)
			continue
		}

		evalAndPrint(line, bindings, opts)
	}
}

func splitAssignment(line string) (name, expr string, ok bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}
	if eq+1 < len(line) && line[eq+1] == '=' {
		// "==" is the equality operator, not an assignment.
		return "", "", false
	}
	candidate := strings.TrimSpace(line[:eq])
	if candidate == "" || !isIdentifier(candidate) {
		return "", "", false
	}
	return candidate, strings.TrimSpace(line[eq+1:]), true
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return len(s) > 0
}

func evalAssignment(name, expr string, vars map[string]*float64, bindings *formulon.Bindings, opts []formulon.Option) {
	v, err := formulon.Interp(expr, bindings, opts...)
	if err != nil {
		printError(expr, err)
		return
	}

	ref, exists := vars[name]
	if !exists {
		ref = new(float64)
		vars[name] = ref
		bindings.Variable(name, ref)
	}
	*ref = v

	fmt.Printf("%s = %s\n", name, strconv.FormatFloat(v, 'g', -1, 64))
}

func evalAndPrint(expr string, bindings *formulon.Bindings, opts []formulon.Option) {
	v, err := formulon.Interp(expr, bindings, opts...)
	if err != nil {
		printError(expr, err)
		return
	}
	fmt.Println(strconv.FormatFloat(v, 'g', -1, 64))
}

func printAST(expr string, bindings *formulon.Bindings, opts []formulon.Option) {
	ast, err := formulon.Compile(expr, bindings, opts...)
	if err != nil {
		printError(expr, err)
		return
	}
	formulon.Print(ast)
	formulon.Free(ast)
}

func printDiff(rest string, vars map[string]*float64, bindings *formulon.Bindings, opts []formulon.Option) {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		fmt.Fprintln(os.Stderr, "ERROR: usage: :diff VAR EXPR")
		return
	}
	name, expr := parts[0], strings.TrimSpace(parts[1])

	ref, ok := vars[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "ERROR: %q is not a bound variable\n", name)
		return
	}

	ast, err := formulon.Compile(expr, bindings, opts...)
	if err != nil {
		printError(expr, err)
		return
	}

	d, err := formulon.Differentiate(ast, ref)
	formulon.Free(ast)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return
	}
	formulon.Print(d)
	formulon.Free(d)
}

func printError(expr string, err error) {
	idx := formulon.ErrorIndex(err)
	if idx <= 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	fmt.Fprintf(os.Stderr, "  %s\n", expr)
	fmt.Fprintf(os.Stderr, "  %s^\n", strings.Repeat(" ", idx-1))
}
