package validation

import "strings"

// FieldError is one failed rule for one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of field errors. Fields keep the order in which
// they were first reported; identical (field, message) pairs appear once.
type Errors []FieldError

// Add appends a field error unless the same pair is already present.
func (e *Errors) Add(field, message string) {
	for _, fe := range *e {
		if fe.Field == field && fe.Message == message {
			return
		}
	}
	// keep entries for the same field adjacent
	for i := len(*e) - 1; i >= 0; i-- {
		if (*e)[i].Field == field {
			*e = append(*e, FieldError{})
			copy((*e)[i+2:], (*e)[i+1:])
			(*e)[i+1] = FieldError{Field: field, Message: message}
			return
		}
	}
	*e = append(*e, FieldError{Field: field, Message: message})
}

func (e Errors) Empty() bool { return len(e) == 0 }

// Has reports whether any error was recorded for field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the messages recorded for field, in order.
func (e Errors) Messages(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}
