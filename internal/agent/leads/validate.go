// Package leads implements lead validation and the capture sink fired when a
// fully-qualified lead is collected.
package leads

import (
	"strings"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
)

// Field identifies one of the lead slots.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPlatform Field = "platform"
)

// fieldOrder is the fixed priority order shared by the slot extractor and the
// response generator: both fill and ask for fields in this sequence.
var fieldOrder = []Field{FieldName, FieldEmail, FieldPlatform}

// Validation reports slot completeness.
type Validation struct {
	IsComplete bool
	Missing    []Field
}

// NextMissing returns the highest-priority missing field, or "" when complete.
func (v Validation) NextMissing() Field {
	if len(v.Missing) == 0 {
		return ""
	}
	return v.Missing[0]
}

// Validate reports whether the lead slots are complete and which fields are
// still missing, in fixed priority order. Whitespace-only values count as
// missing. Pure function, no side effects.
func Validate(slots model.LeadSlots) Validation {
	values := map[Field]string{
		FieldName:     slots.Name,
		FieldEmail:    slots.Email,
		FieldPlatform: slots.Platform,
	}

	var missing []Field
	for _, f := range fieldOrder {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}

	return Validation{
		IsComplete: len(missing) == 0,
		Missing:    missing,
	}
}
