// Package components renders the console markup as templ components.
//
// Components are written against templ.ComponentFunc with a small element
// helper instead of .templ sources, so the package builds without a code
// generation step.
package components

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"
)

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true, "meta": true,
}

// el renders <tag attrs>children</tag>. Nil children are skipped.
func el(tag string, attrs templ.Attributer, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if attrs != nil {
			if err := templ.RenderAttributes(ctx, w, attrs); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if voidElements[tag] {
			return nil
		}
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// attrs builds ordered attributes from key/value pairs. Values follow
// templ.RenderAttributes: false booleans are omitted.
func attrs(kv ...any) templ.OrderedAttributes {
	out := make(templ.OrderedAttributes, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		out = append(out, templ.KeyValue[string, any]{Key: key, Value: kv[i+1]})
	}
	return out
}

// text renders escaped text.
func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// group renders children in order, skipping nil ones.
func group(children ...templ.Component) templ.Component {
	kept := make([]templ.Component, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return templ.Join(kept...)
}

// Fragment renders children in order. Nil children are skipped.
func Fragment(children ...templ.Component) templ.Component {
	return group(children...)
}

func classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// jsString quotes s as a JavaScript string literal for Datastar expressions.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Render writes c to a string, for CLI output and tests.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
