package fleet

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Coerce converts loosely typed input (form strings, CSV cells, YAML values)
// into the value types of the kind's fields. Empty inputs are dropped, keys
// that are not form fields are passed through unchanged. Values that cannot
// be converted are reported as a *ValidationError.
func (k Kind) Coerce(input map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(input))
	verr := &ValidationError{Kind: k.Singular}

	for key, raw := range input {
		if _, ok := k.Field(key); !ok {
			out[key] = raw
		}
	}

	for _, f := range k.Fields {
		raw, present := input[f.Key]
		if f.Type == FieldCheckbox {
			b, err := coerceBool(raw, present)
			if err != nil {
				verr.add(f.Key, "must be yes or no")
				continue
			}
			out[f.Key] = b
			continue
		}
		if !present || isBlank(raw) {
			continue
		}

		switch f.Type {
		case FieldNumber:
			var n float64
			if err := mapstructure.WeakDecode(trimmed(raw), &n); err != nil {
				verr.add(f.Key, "must be a number")
				continue
			}
			out[f.Key] = n
		case FieldInteger:
			var n int64
			if err := mapstructure.WeakDecode(trimmed(raw), &n); err != nil {
				verr.add(f.Key, "must be a whole number")
				continue
			}
			out[f.Key] = n
		case FieldDate:
			if t, ok := raw.(time.Time); ok {
				out[f.Key] = t.Format(time.DateOnly)
				continue
			}
			var s string
			if err := mapstructure.WeakDecode(raw, &s); err != nil {
				verr.add(f.Key, "must be a date")
				continue
			}
			out[f.Key] = strings.TrimSpace(s)
		case FieldMulti:
			values := splitList(raw)
			if len(values) > 0 {
				out[f.Key] = values
			}
		default:
			var s string
			if err := mapstructure.WeakDecode(raw, &s); err != nil {
				verr.add(f.Key, "must be text")
				continue
			}
			out[f.Key] = strings.TrimSpace(s)
		}
	}

	if len(verr.Fields) > 0 {
		return out, verr
	}
	return out, nil
}

// CoerceForm converts submitted form values. Multi-select fields keep every
// submitted value; other fields use the first one.
func (k Kind) CoerceForm(form url.Values) (map[string]any, error) {
	input := make(map[string]any, len(k.Fields))
	for _, f := range k.Fields {
		values, ok := form[f.Key]
		if !ok {
			continue
		}
		if f.Type == FieldMulti {
			input[f.Key] = values
			continue
		}
		if len(values) > 0 {
			input[f.Key] = values[0]
		}
	}
	return k.Coerce(input)
}

func coerceBool(raw any, present bool) (bool, error) {
	if !present || raw == nil {
		return false, nil
	}
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "off", "no":
			return false, nil
		case "on", "yes":
			return true, nil
		}
	}
	var b bool
	err := mapstructure.WeakDecode(raw, &b)
	return b, err
}

func isBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	case []any:
		return len(v) == 0
	}
	return false
}

func trimmed(raw any) any {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return raw
}

// splitList accepts a list or a string separated by commas or semicolons.
func splitList(raw any) []string {
	var items []string
	if s, ok := raw.(string); ok {
		items = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	} else if err := mapstructure.WeakDecode(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
