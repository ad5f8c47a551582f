package taskwarrior

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AttributeKind tags the result of a custom attribute lookup.
type AttributeKind int

const (
	AttrAbsent AttributeKind = iota
	AttrText
	AttrOther
)

// Attribute is a typed view of one field of the task object.
type Attribute struct {
	Kind AttributeKind
	Text string          // set when Kind == AttrText
	Raw  json.RawMessage // original JSON, empty when absent
}

// Record is one task as read from the hook input. Fields the hook does
// not understand are kept verbatim so only until and wait can change.
type Record struct {
	Task
	line     []byte
	fields   map[string]json.RawMessage
	modified bool
}

// ParseRecord decodes a single task JSON line.
func ParseRecord(line []byte) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode task json: %w", err)
	}
	if fields == nil {
		return nil, errors.New("failed to decode task json: not an object")
	}

	r := &Record{line: append([]byte(nil), line...), fields: fields}
	if err := json.Unmarshal(line, &r.Task); err != nil {
		return nil, fmt.Errorf("failed to decode task json: %w", err)
	}
	return r, nil
}

// UUID identifies the task in diagnostics.
func (r *Record) UUID() string {
	if r.Task.UUID == "" {
		return "<unknown>"
	}
	return r.Task.UUID
}

// IsTemplate reports whether the record is a recurring parent: status is
// recurring and a recur rule is present. A null recur counts as absent.
func (r *Record) IsTemplate() bool {
	raw, hasRecur := r.fields["recur"]
	if !hasRecur || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	return r.Status == RECURRING
}

// DueTime returns the due date, if any.
func (r *Record) DueTime() (CustomTime, bool) {
	return present(r.Due)
}

// UntilTime returns the current until date, if any.
func (r *Record) UntilTime() (CustomTime, bool) {
	return present(r.Until)
}

// WaitTime returns the current wait date, if any.
func (r *Record) WaitTime() (CustomTime, bool) {
	return present(r.Wait)
}

func present(ct *CustomTime) (CustomTime, bool) {
	if ct == nil || ct.IsZero() {
		return CustomTime{}, false
	}
	return *ct, true
}

// Attribute looks up a field by name.
func (r *Record) Attribute(name string) Attribute {
	raw, ok := r.fields[name]
	if !ok {
		return Attribute{Kind: AttrAbsent}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Attribute{Kind: AttrOther, Raw: raw}
	}
	return Attribute{Kind: AttrText, Text: s, Raw: raw}
}

// SetUntil replaces the until date.
func (r *Record) SetUntil(ct CustomTime) {
	r.set("until", ct)
	r.Until = &ct
}

// SetWait replaces the wait date.
func (r *Record) SetWait(ct CustomTime) {
	r.set("wait", ct)
	r.Wait = &ct
}

func (r *Record) set(field string, ct CustomTime) {
	r.fields[field] = ct.raw()
	r.modified = true
}

// Modified reports whether SetUntil or SetWait was called.
func (r *Record) Modified() bool {
	return r.modified
}

// Encode serializes the record as a single JSON line without the trailing
// newline. An unmodified record returns its input bytes exactly.
func (r *Record) Encode() ([]byte, error) {
	if !r.modified {
		return append([]byte(nil), r.line...), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.fields); err != nil {
		return nil, fmt.Errorf("failed to encode task json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Shift returns base moved by a whole number of seconds, keeping base's layout.
func Shift(base CustomTime, seconds int64) CustomTime {
	return base.In(base.Time.Add(time.Duration(seconds) * time.Second))
}
