// Package codegen renders a strategy configuration as an explanation or as a runnable
// script for an external Python backtesting framework.
package codegen

import (
	"bytes"
	"slices"
	"strconv"
	"text/template"

	"github.com/go-playground/validator/v10"

	"github.com/Simon666Z/quantforge/internal/strategy"
	"github.com/Simon666Z/quantforge/internal/types"
	"github.com/Simon666Z/quantforge/pkg/errors"
)

// Framework is a code generation target.
type Framework string

const (
	FrameworkPseudocode Framework = "pseudocode"
	FrameworkVectorBT   Framework = "vectorbt"
	FrameworkBacktrader Framework = "backtrader"
)

// Request describes the script to generate.
type Request struct {
	Ticker         string             `json:"ticker" validate:"required"`
	Strategy       types.StrategyType `json:"strategy"`
	Params         strategy.Params    `json:"params"`
	Fees           float64            `json:"fees" validate:"gte=0,lt=1"`
	Slippage       float64            `json:"slippage" validate:"gte=0,lt=1"`
	InitialCapital float64            `json:"initialCapital" validate:"gt=0"`
}

// Param is one strategy parameter formatted for source code.
type Param struct {
	Name  string
	Value string
}

// view is the data every template receives.
type view struct {
	Ticker   string
	Strategy types.StrategyType
	Name     string
	Fees     string
	Slippage string
	Capital  string
	// P maps parameter names to formatted values, defaults included.
	P      map[string]string
	Params []Param
}

// Generate dispatches to the generator of framework.
func Generate(framework Framework, req Request) (string, error) {
	switch framework {
	case FrameworkPseudocode:
		return Pseudocode(req.Strategy, req.Params)
	case FrameworkVectorBT:
		return VectorBT(req)
	case FrameworkBacktrader:
		return Backtrader(req)
	default:
		return "", errors.Newf(errors.ErrCodeCodegenUnsupported, "unsupported framework: %s", framework)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newView merges params over the strategy defaults. Unknown strategies keep params as given.
func newView(strategyType types.StrategyType, params strategy.Params) view {
	merged := strategy.Params{}
	name := string(strategyType)

	if entry, ok := strategy.Describe(strategyType); ok {
		name = entry.Name

		for k, v := range entry.Defaults {
			merged[k] = v
		}
	}

	for k, v := range params {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	v := view{
		Strategy: strategyType,
		Name:     name,
		P:        make(map[string]string, len(merged)),
		Params:   make([]Param, 0, len(merged)),
	}

	for _, k := range keys {
		formatted := formatNumber(merged[k])
		v.P[k] = formatted
		v.Params = append(v.Params, Param{Name: k, Value: formatted})
	}

	return v
}

func newRequestView(req Request) (view, error) {
	if req.Strategy == "" {
		return view{}, errors.New(errors.ErrCodeCodegenUnsupported, "strategy is required for code generation")
	}

	if err := validator.New().Struct(req); err != nil {
		return view{}, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid code generation request", err)
	}

	v := newView(req.Strategy, req.Params)
	v.Ticker = req.Ticker
	v.Fees = formatNumber(req.Fees)
	v.Slippage = formatNumber(req.Slippage)
	v.Capital = formatNumber(req.InitialCapital)

	return v, nil
}

// render executes the template of v.Strategy, or fallback when there is none.
func render(templates map[types.StrategyType]*template.Template, fallback *template.Template, v view) (string, error) {
	tmpl, ok := templates[v.Strategy]
	if !ok {
		tmpl = fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", errors.Wrapf(errors.ErrCodeCodegenUnsupported, err, "failed to render %s", tmpl.Name())
	}

	return buf.String(), nil
}

func mustParse(name string, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}
