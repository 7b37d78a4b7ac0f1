package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// BackendError is a non-2xx response from the backend.
//
// Detail is taken from a "detail" (or "error") string in the body. Fields
// collects per-field validation messages such as
// {"username": ["A user with that username already exists."]}.
type BackendError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *BackendError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		return strings.TrimRight(e.Flatten(), "\n")
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Flatten renders Fields as one "key: msg1, msg2" line per field, keys sorted.
func (e *BackendError) Flatten() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, strings.Join(e.Fields[k], ", "))
	}
	return b.String()
}

// HasFields reports whether the backend returned field-level errors.
func (e *BackendError) HasFields() bool {
	return len(e.Fields) > 0
}

const maxErrorBody = 64 << 10

func decodeError(resp *http.Response) error {
	be := &BackendError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		for k, v := range raw {
			var s string
			if json.Unmarshal(v, &s) == nil {
				if k == "detail" || k == "error" {
					be.Detail = s
				} else {
					be.addField(k, s)
				}
				continue
			}
			var list []string
			if json.Unmarshal(v, &list) == nil {
				for _, item := range list {
					be.addField(k, item)
				}
			}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", ErrUnauthorized, be)
	}
	return be
}

func (e *BackendError) addField(k, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[k] = append(e.Fields[k], msg)
}

// Message extracts the text to show the user for err: the backend detail or
// flattened field errors when err carries a *BackendError, err.Error()
// otherwise.
func Message(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		if be.HasFields() && be.Detail == "" {
			return be.Flatten()
		}
		return be.Error()
	}
	return err.Error()
}
