package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error maps each offending field to a human-readable message. The API
// layer renders the map verbatim as a 400 body.
type Error struct {
	Fields map[string]string
}

func NewError(field, message string) *Error {
	return &Error{Fields: map[string]string{field: message}}
}

func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = message
	}
}

func (e *Error) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
