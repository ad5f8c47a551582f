package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

const (
	PENDING   = "pending"
	COMPLETED = "completed"
	WAITING   = "waiting"
	DELETED   = "deleted"
	RECURRING = "recurring"
)

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// CustomTime is a Taskwarrior timestamp. It remembers the layout it was
// decoded with so a derived value is written back in the same shape.
type CustomTime struct {
	time.Time
	layout string
}

// NewTime returns a CustomTime in Taskwarrior's export layout.
func NewTime(t time.Time) CustomTime {
	return CustomTime{Time: t.UTC(), layout: taskwarriorTimeLayout}
}

// In returns t carrying the same layout as ct.
func (ct CustomTime) In(t time.Time) CustomTime {
	return CustomTime{Time: t.UTC(), layout: ct.layout}
}

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err == nil {
		ct.Time, ct.layout = t, taskwarriorTimeLayout
		return nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
		ct.Time, ct.layout = t.UTC(), time.RFC3339
		return nil
	}
	return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	return ct.raw(), nil
}

func (ct CustomTime) raw() []byte {
	if ct.Time.IsZero() {
		return []byte(`""`)
	}
	layout := ct.layout
	if layout == "" {
		layout = taskwarriorTimeLayout
	}
	return []byte(`"` + ct.Time.UTC().Format(layout) + `"`)
}

// String formats the timestamp for diagnostics.
func (ct CustomTime) String() string {
	return ct.Time.UTC().Format(time.RFC3339)
}

// Task holds the fields the hook reads. Everything else in the JSON
// object is carried untouched by Record.
type Task struct {
	UUID   string      `json:"uuid"`
	Status string      `json:"status"`
	Recur  string      `json:"recur,omitempty"`
	Due    *CustomTime `json:"due,omitempty"`
	Until  *CustomTime `json:"until,omitempty"`
	Wait   *CustomTime `json:"wait,omitempty"`
}
