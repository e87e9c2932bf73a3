// Package pongo adapts pongo2 as the placeholder engine: {{ key }} lookups
// with dotted access into nested values ({{ products.id }}).
package pongo

import (
	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-e2w/e2w"
)

// Engine executes pongo2 templates against a render context.
type Engine struct{}

// Execute substitutes placeholders in source using data.
func (Engine) Execute(source string, data e2w.Context) (string, error) {
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return "", err
	}

	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		ctx[key] = value
	}
	return tpl.Execute(ctx)
}
