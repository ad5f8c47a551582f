// Package hook drives the record stream: one task line in, one task line
// out, with per-record failures passed through unmodified.
package hook

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/apoelstra/taskwarrior-hooks/pkg/derive"
	"github.com/apoelstra/taskwarrior-hooks/pkg/taskwarrior"
	"github.com/apoelstra/taskwarrior-hooks/pkg/uda"
)

const Name = "on-add.relative-uda"

// Stages of Process, used in diagnostics.
const (
	StageParse   = "parse"
	StageResolve = "resolve"
	StageEncode  = "encode"
)

// StageError is a recoverable failure of one record.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ReadError means the input stream itself broke. It is the only fatal
// condition.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

type Hook struct {
	Name     string
	Resolver *uda.Resolver
	Engine   *derive.Engine
	Log      *log.Logger
}

// New wires a Hook reading the given attribute names and logging to l.
func New(l *log.Logger, untilAttr, waitAttr string) *Hook {
	return &Hook{
		Name:     Name,
		Resolver: uda.NewResolver(untilAttr, waitAttr),
		Engine:   derive.NewEngine(l, untilAttr, waitAttr),
		Log:      l,
	}
}

// Process transforms a single task line.
func (h *Hook) Process(line []byte) ([]byte, error) {
	rec, err := taskwarrior.ParseRecord(line)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: fmt.Errorf("parsing JSON %q: %w", line, err)}
	}

	// Templates pass through before their attributes are even read.
	if rec.IsTemplate() {
		return h.encode(rec)
	}

	offsets, err := h.Resolver.Resolve(rec)
	if err != nil {
		return nil, &StageError{Stage: StageResolve, Err: err}
	}

	h.Engine.Apply(rec, offsets)
	return h.encode(rec)
}

func (h *Hook) encode(rec *taskwarrior.Record) ([]byte, error) {
	out, err := rec.Encode()
	if err != nil {
		return nil, &StageError{Stage: StageEncode, Err: err}
	}
	return out, nil
}

// Run processes r line by line until EOF, writing one line to w for each
// input line. It returns a *ReadError if r fails and a plain error if w
// does; record failures are logged and never returned.
func (h *Hook) Run(r io.Reader, w io.Writer) error {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)

	for {
		line, readErr := in.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return &ReadError{Err: readErr}
		}
		if len(line) == 0 && readErr != nil {
			return nil
		}

		line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
		if err := h.emit(out, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		if readErr != nil {
			return nil
		}
	}
}

func (h *Hook) emit(out *bufio.Writer, line []byte) error {
	result, err := h.Process(line)
	if err != nil {
		h.logf("Hook %s failed. Passing unmodified task through.", h.name())
		h.logf("Error:")
		h.logf("%v", err)
		result = line
	}

	if _, err := out.Write(result); err != nil {
		return err
	}
	if err := out.WriteByte('\n'); err != nil {
		return err
	}
	return out.Flush()
}

func (h *Hook) name() string {
	if h.Name == "" {
		return Name
	}
	return h.Name
}

func (h *Hook) logf(format string, args ...any) {
	if h.Log == nil {
		log.Printf(format, args...)
		return
	}
	h.Log.Printf(format, args...)
}
