package fleet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKind is returned for slugs that are not in the catalog.
var ErrUnknownKind = errors.New("unknown kind")

// ValidationError lists the invalid fields of a record, keyed by field key.
// Errors not tied to a field are stored under the empty key.
type ValidationError struct {
	Kind   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		if k == "" {
			parts[i] = e.Fields[k]
			continue
		}
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// add records the first message for a field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
