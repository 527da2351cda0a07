package bulk

import (
	"fmt"
	"strings"
)

// DisplayLimit caps how many errors Display shows.
const DisplayLimit = 10

// RowError attributes one failure to one input row.
type RowError struct {
	Row     int    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// Summary is the outcome of one batch. Errors keeps every failure in row order;
// Warnings holds notes about rows that still succeeded.
type Summary struct {
	Rows     int        `json:"rows"`
	Created  int        `json:"created"`
	Updated  int        `json:"updated"`
	Deleted  int        `json:"deleted"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
	Warnings []RowError `json:"warnings,omitempty"`
}

func newSummary() *Summary {
	return &Summary{Errors: []RowError{}}
}

func (s *Summary) fail(row int, err error) {
	s.Errors = append(s.Errors, RowError{Row: row, Kind: Kind(err), Message: err.Error()})
}

func (s *Summary) warn(row int, msg string) {
	s.Warnings = append(s.Warnings, RowError{Row: row, Kind: "warning", Message: msg})
}

// HasErrors reports whether any row failed.
func (s *Summary) HasErrors() bool { return len(s.Errors) > 0 }

// View is the presentation form of a Summary: counts plus at most DisplayLimit
// formatted errors.
type View struct {
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Deleted    int      `json:"deleted"`
	Skipped    int      `json:"skipped"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors"`
	More       int      `json:"more,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Display builds the capped view. The Summary itself is not modified.
func (s *Summary) Display() View {
	v := View{
		Created:    s.Created,
		Updated:    s.Updated,
		Deleted:    s.Deleted,
		Skipped:    s.Skipped,
		ErrorCount: len(s.Errors),
		Errors:     make([]string, 0, min(len(s.Errors), DisplayLimit)),
	}
	for i, e := range s.Errors {
		if i == DisplayLimit {
			v.More = len(s.Errors) - DisplayLimit
			break
		}
		v.Errors = append(v.Errors, e.String())
	}
	for _, w := range s.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}

// String renders the view as plain text lines.
func (v View) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created: %d  Updated: %d  Deleted: %d  Skipped: %d\n", v.Created, v.Updated, v.Deleted, v.Skipped)
	if v.ErrorCount > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", v.ErrorCount)
		for _, e := range v.Errors {
			fmt.Fprintf(&b, "  %s\n", e)
		}
		if v.More > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", v.More)
		}
	}
	if len(v.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range v.Warnings {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}
	return b.String()
}
