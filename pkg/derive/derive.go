// Package derive computes until and wait from a task's due date and the
// resolved relative offsets.
package derive

import (
	"log"

	"github.com/apoelstra/taskwarrior-hooks/pkg/taskwarrior"
	"github.com/apoelstra/taskwarrior-hooks/pkg/uda"
)

// Engine applies due-relative offsets to a record.
type Engine struct {
	Log       *log.Logger // nil uses the standard logger
	UntilAttr string
	WaitAttr  string
	// Quiet drops warnings. Derivation is unaffected.
	Quiet bool
}

// NewEngine returns an Engine that warns on l.
func NewEngine(l *log.Logger, untilAttr, waitAttr string) *Engine {
	return &Engine{Log: l, UntilAttr: untilAttr, WaitAttr: waitAttr}
}

// Apply sets until = due + offsets.Until and wait = due - offsets.Wait.
// Recurring templates and tasks without a due date are left untouched.
func (e *Engine) Apply(rec *taskwarrior.Record, offsets uda.Offsets) {
	if rec.IsTemplate() {
		return
	}

	due, ok := rec.DueTime()
	if !ok {
		if offsets.Until.Set {
			e.warnf("Warning [task %s]: task has '%s' set but no 'due' date. Ignoring '%s'.", rec.UUID(), e.UntilAttr, e.UntilAttr)
		}
		if offsets.Wait.Set {
			e.warnf("Warning [task %s]: task has '%s' set but no 'due' date. Ignoring '%s'.", rec.UUID(), e.WaitAttr, e.WaitAttr)
		}
		return
	}

	if offsets.Until.Set {
		until := taskwarrior.Shift(due, offsets.Until.Seconds)
		// Warn whenever a value exists, even an identical one.
		if old, ok := rec.UntilTime(); ok {
			e.warnf("Warning [task %s]: clobbering existing 'until' value %s with %s", rec.UUID(), old, until)
		}
		rec.SetUntil(until)
	}

	if offsets.Wait.Set {
		wait := taskwarrior.Shift(due, -offsets.Wait.Seconds)
		if old, ok := rec.WaitTime(); ok {
			e.warnf("Warning [task %s]: clobbering existing 'wait' value %s with %s", rec.UUID(), old, wait)
		}
		rec.SetWait(wait)
	}
}

func (e *Engine) warnf(format string, args ...any) {
	if e.Quiet {
		return
	}
	if e.Log == nil {
		log.Printf(format, args...)
		return
	}
	e.Log.Printf(format, args...)
}
