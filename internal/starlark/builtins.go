package starlark

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/haulwise/tmsadmin/internal/fleet"
)

// Predeclared returns the globals visible to computed column expressions:
//
//	title(s)             title-cases s
//	label(list, value)   option label of value in a fleet option list
//	days_until(date)     whole days from today until date, None if unparsable
//	coalesce(*values)    first value that is neither None nor ""
func Predeclared(now func() time.Time) starlark.StringDict {
	if now == nil {
		now = time.Now
	}
	globals := starlark.StringDict{
		"title":      starlark.NewBuiltin("title", builtinTitle),
		"label":      starlark.NewBuiltin("label", builtinLabel),
		"days_until": starlark.NewBuiltin("days_until", daysUntil(now)),
		"coalesce":   starlark.NewBuiltin("coalesce", builtinCoalesce),
	}
	globals.Freeze()
	return globals
}

func builtinTitle(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	// A Caser is stateful and cannot be shared between threads.
	return starlark.String(cases.Title(language.Und).String(s)), nil
}

func builtinLabel(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var list string
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &list, &value); err != nil {
		return nil, err
	}
	if value == starlark.None {
		return starlark.String(""), nil
	}
	s, ok := starlark.AsString(value)
	if !ok {
		s = value.String()
	}
	return starlark.String(fleet.OptionLabel(list, s)), nil
}

func daysUntil(now func() time.Time) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var value starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
			return nil, err
		}
		s, ok := starlark.AsString(value)
		if !ok {
			return starlark.None, nil
		}
		date, ok := parseDate(strings.TrimSpace(s))
		if !ok {
			return starlark.None, nil
		}
		today := truncateDay(now())
		days := math.Round(date.Sub(today).Hours() / 24)
		return starlark.MakeInt(int(days)), nil
	}
}

func builtinCoalesce(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	for _, v := range args {
		if v == starlark.None {
			continue
		}
		if s, ok := starlark.AsString(v); ok && s == "" {
			continue
		}
		return v, nil
	}
	return starlark.None, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
