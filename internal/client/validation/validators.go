// Package validation checks form input locally, before anything reaches the
// network.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrInvalid is matched by every Errors value.
var ErrInvalid = errors.New("invalid input")

// Validator returns an error message for v, or "" if v is acceptable.
type Validator func(v string) string

// Required rejects blank values.
func Required(msg string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// MinLen rejects values shorter than n runes.
func MinLen(n int, msg string) Validator {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) < n {
			return msg
		}
		return ""
	}
}

// Email rejects values that are not a bare address.
func Email(msg string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		a, err := mail.ParseAddress(v)
		if err != nil || a.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
			return msg
		}
		return ""
	}
}

// Equals rejects values different from other.
func Equals(other, msg string) Validator {
	return func(v string) string {
		if v != other {
			return msg
		}
		return ""
	}
}

// Errors maps a field name to its first failing message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// FieldValidator accumulates per-field errors.
type FieldValidator struct {
	errs Errors
}

func New() *FieldValidator {
	return &FieldValidator{errs: Errors{}}
}

// Validate runs validators against value and keeps the first failure.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errs[field] = msg
			break
		}
	}
	return fv
}

// Err returns nil when every field passed, otherwise the Errors.
func (fv *FieldValidator) Err() error {
	if len(fv.errs) == 0 {
		return nil
	}
	return fv.errs
}
