// Package forms decodes the admin product form into a models.Product. Every
// form key maps to a typed field with its own parsing rule.
package forms

import (
	"math"
	"strconv"
	"strings"

	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
)

// Field decodes one raw form value into a product.
type Field interface {
	Name() string
	Apply(p *models.Product, raw string)
}

// Text stores the trimmed value.
type Text struct {
	Key string
	Set func(p *models.Product, v string)
}

func (f Text) Name() string { return f.Key }

func (f Text) Apply(p *models.Product, raw string) { f.Set(p, strings.TrimSpace(raw)) }

// Bool is a checkbox: "on", "true", "1" and "yes" are checked.
type Bool struct {
	Key string
	Set func(p *models.Product, v bool)
}

func (f Bool) Name() string { return f.Key }

func (f Bool) Apply(p *models.Product, raw string) { f.Set(p, ParseBool(raw)) }

// Number parses a decimal value; anything unparsable becomes zero.
type Number struct {
	Key string
	Set func(p *models.Product, v float64)
}

func (f Number) Name() string { return f.Key }

func (f Number) Apply(p *models.Product, raw string) { f.Set(p, ParseNumber(raw)) }

// Integer parses a whole number; anything unparsable becomes zero.
type Integer struct {
	Key string
	Set func(p *models.Product, v int)
}

func (f Integer) Name() string { return f.Key }

func (f Integer) Apply(p *models.Product, raw string) { f.Set(p, int(ParseNumber(raw))) }

// List splits a comma-delimited value.
type List struct {
	Key string
	Set func(p *models.Product, v []string)
}

func (f List) Name() string { return f.Key }

func (f List) Apply(p *models.Product, raw string) { f.Set(p, utils.SplitList(raw)) }

func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func ParseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
