// Package script drives a SymbolTable from a line-oriented command file,
// the classic input format of symbol-table exercises:
//
//	7           optional bucket count, first non-comment line only
//	I foo FUNCTION
//	L foo
//	S
//	E
//	P A
//	Q
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArity          = errors.New("wrong number of arguments")
)

// Op is a command letter.
type Op byte

const (
	OpInsert Op = 'I'
	OpLookup Op = 'L'
	OpDelete Op = 'D'
	OpWhere  Op = 'W'
	OpPrint  Op = 'P'
	OpEnter  Op = 'S'
	OpExit   Op = 'E'
	OpFind   Op = 'F'
	OpQuit   Op = 'Q'
)

const (
	printAll     = "A"
	printCurrent = "C"
)

var arity = map[Op]int{
	OpInsert: 2,
	OpLookup: 1,
	OpDelete: 1,
	OpWhere:  1,
	OpPrint:  1,
	OpEnter:  0,
	OpExit:   0,
	OpFind:   1,
	OpQuit:   0,
}

// Command is one parsed script line.
type Command struct {
	Line int
	Op   Op
	Args []string
	Text string

	pattern glob.Glob
}

// Script is a parsed command file. Buckets is 0 when the file does not
// set a bucket count.
type Script struct {
	Buckets  int
	Commands []Command
}

// ParseError reports the line a parse failure occurred on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a whole script. Blank lines and lines starting with # are
// skipped.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	sc := bufio.NewScanner(r)
	line := 0
	first := true
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if first {
			first = false
			if n, err := strconv.Atoi(text); err == nil {
				if n <= 0 {
					return nil, &ParseError{Line: line, Err: fmt.Errorf("bucket count must be positive, got %d", n)}
				}
				s.Buckets = n
				continue
			}
		}
		cmd, err := ParseLine(line, text)
		if err != nil {
			return nil, err
		}
		s.Commands = append(s.Commands, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return s, nil
}

// ParseLine parses a single command.
func ParseLine(line int, text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, &ParseError{Line: line, Err: fmt.Errorf("%w: empty line", ErrUnknownCommand)}
	}
	if len(fields[0]) != 1 {
		return Command{}, &ParseError{Line: line, Err: fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])}
	}
	op := Op(strings.ToUpper(fields[0])[0])
	want, ok := arity[op]
	if !ok {
		return Command{}, &ParseError{Line: line, Err: fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])}
	}
	args := fields[1:]
	if len(args) != want {
		return Command{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %c takes %d, got %d", ErrArity, op, want, len(args))}
	}
	cmd := Command{Line: line, Op: op, Args: args, Text: strings.Join(fields, " ")}

	switch op {
	case OpPrint:
		mode := strings.ToUpper(args[0])
		if mode != printAll && mode != printCurrent {
			return Command{}, &ParseError{Line: line, Err: fmt.Errorf("P takes A or C, got %q", args[0])}
		}
		cmd.Args = []string{mode}
	case OpFind:
		g, err := glob.Compile(args[0])
		if err != nil {
			return Command{}, &ParseError{Line: line, Err: fmt.Errorf("invalid pattern %q: %w", args[0], err)}
		}
		cmd.pattern = g
	}
	return cmd, nil
}

func (o Op) String() string { return string(rune(o)) }
