package app

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError carries one message per invalid form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type validator struct {
	fields map[string]string
}

func (v *validator) add(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, ok := v.fields[field]; !ok {
		v.fields[field] = msg
	}
}

// length checks that value has between lo and hi characters. hi < 0 means unbounded.
func (v *validator) length(field, value string, lo, hi int) {
	n := utf8.RuneCountInString(value)
	switch {
	case hi < 0 && n < lo:
		v.add(field, fmt.Sprintf("Field must be at least %d characters long.", lo))
	case hi >= 0 && (n < lo || n > hi):
		v.add(field, fmt.Sprintf("Field must be between %d and %d characters long.", lo, hi))
	}
}

func (v *validator) required(field, value string) {
	if value == "" {
		v.add(field, "This field is required.")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
