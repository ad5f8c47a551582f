// Package uda resolves the relative-offset user defined attributes of a
// task into durations.
package uda

import (
	"errors"
	"fmt"

	"github.com/apoelstra/taskwarrior-hooks/pkg/duration"
	"github.com/apoelstra/taskwarrior-hooks/pkg/taskwarrior"
)

const (
	DefaultUntilAttr = "untilrel"
	DefaultWaitAttr  = "waitrel"
)

var errExpectedString = errors.New("expected a duration string")

// Offset is an optional signed number of seconds.
type Offset struct {
	Set     bool
	Seconds int64
}

// Offsets holds the resolved values for one record.
type Offsets struct {
	Until Offset
	Wait  Offset
}

// ParseError reports an attribute whose value is not a duration.
type ParseError struct {
	Attr string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing '%s' %s: %v", e.Attr, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Attributes is the lookup a Resolver needs from a record.
type Attributes interface {
	Attribute(name string) taskwarrior.Attribute
}

// Resolver extracts the until and wait offsets from a record.
type Resolver struct {
	UntilAttr string
	WaitAttr  string
	// Parse converts a textual duration to seconds. Defaults to duration.Parse.
	Parse func(string) (int64, error)
}

// NewResolver returns a Resolver reading the given attribute names.
func NewResolver(untilAttr, waitAttr string) *Resolver {
	return &Resolver{UntilAttr: untilAttr, WaitAttr: waitAttr, Parse: duration.Parse}
}

// Resolve reads both attributes. Any malformed value fails the whole record.
func (r *Resolver) Resolve(attrs Attributes) (Offsets, error) {
	var out Offsets
	var err error
	if out.Until, err = r.resolve(attrs, r.UntilAttr); err != nil {
		return Offsets{}, err
	}
	if out.Wait, err = r.resolve(attrs, r.WaitAttr); err != nil {
		return Offsets{}, err
	}
	return out, nil
}

func (r *Resolver) resolve(attrs Attributes, name string) (Offset, error) {
	a := attrs.Attribute(name)
	switch a.Kind {
	case taskwarrior.AttrAbsent:
		return Offset{}, nil
	case taskwarrior.AttrText:
		parse := r.Parse
		if parse == nil {
			parse = duration.Parse
		}
		secs, err := parse(a.Text)
		if err != nil {
			return Offset{}, &ParseError{Attr: name, Raw: string(a.Raw), Err: err}
		}
		return Offset{Set: true, Seconds: secs}, nil
	default:
		return Offset{}, &ParseError{Attr: name, Raw: string(a.Raw), Err: errExpectedString}
	}
}
