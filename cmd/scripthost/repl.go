package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/scripthost"
	"github.com/deepnoodle-ai/scripthost/script"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const prompt = "> "

// lineReader is the part of term.Terminal the REPL needs, so piped input can
// use a plain scanner instead.
type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (r *scannerReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// runREPL reads lines and evaluates each one. Lines are compiled as an
// expression when possible and as statements otherwise. ":reset" rebuilds
// the interpreter.
func runREPL(manager *scripthost.Manager) error {
	fd := int(os.Stdin.Fd())
	var reader lineReader
	var out io.Writer = os.Stdout

	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, oldState)
		terminal := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, prompt)
		reader = terminal
		out = terminal
		color.Output = terminal
	} else {
		reader = &scannerReader{scanner: bufio.NewScanner(os.Stdin)}
	}

	ctx := context.Background()
	for {
		line, err := reader.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":reset":
			if err := manager.Reset(); err != nil {
				fmt.Fprintf(out, "reset failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "interpreter %s\n", manager.ID())
			continue
		}

		if err := evalLine(ctx, manager, out, line); err != nil {
			if scripthost.IsFatal(err) {
				return err
			}
			fmt.Fprintln(out, color.RedString("%v", err))
		}
	}
}

func evalLine(ctx context.Context, manager *scripthost.Manager, out io.Writer, line string) error {
	code, err := manager.Compile(ctx, line)
	if err != nil {
		return err
	}
	value, err := code.Evaluate(ctx, nil)
	if err != nil {
		return err
	}
	if value.Kind() != script.KindNil {
		fmt.Fprintln(out, color.CyanString("%s", value.String()))
	}
	return nil
}
