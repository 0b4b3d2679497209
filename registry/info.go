// Package registry catalogs computer and adapter factories for runtime
// discovery. It is a catalog, not a dispatcher: selection happens by a
// (name, selector kind, source kind) triple so configuration and UI layers
// can enumerate the available analyses without recompiling the orchestrator.
package registry

import (
	"strconv"

	"github.com/lucidtrace/tabula/source"
	"github.com/lucidtrace/tabula/table"
)

// ParameterDescriptor describes one configuration parameter a factory
// accepts. UIHint drives rendering ("enum", "number", "text"); Properties
// carries hint-specific extras such as enum choices or numeric bounds.
type ParameterDescriptor struct {
	Name        string
	Description string
	Required    bool
	UIHint      string
	Properties  map[string]string
}

// EnumParameter describes a parameter restricted to a fixed set of choices.
func EnumParameter(name, description string, required bool, choices ...string) ParameterDescriptor {
	props := make(map[string]string, len(choices))
	for i, c := range choices {
		props["choice_"+strconv.Itoa(i)] = c
	}
	return ParameterDescriptor{
		Name:        name,
		Description: description,
		Required:    required,
		UIHint:      "enum",
		Properties:  props,
	}
}

// IntParameter describes an integer parameter with inclusive bounds.
func IntParameter(name, description string, required bool, min, max int) ParameterDescriptor {
	return ParameterDescriptor{
		Name:        name,
		Description: description,
		Required:    required,
		UIHint:      "number",
		Properties: map[string]string{
			"min": strconv.Itoa(min),
			"max": strconv.Itoa(max),
		},
	}
}

// TextParameter describes a free-form string parameter.
func TextParameter(name, description string, required bool) ParameterDescriptor {
	return ParameterDescriptor{
		Name:        name,
		Description: description,
		Required:    required,
		UIHint:      "text",
	}
}

// ComputerInfo is the discoverable metadata for one registered computer.
type ComputerInfo struct {
	Name        string
	Description string

	// ElementType and IsVector describe the output column(s).
	ElementType table.ElementType
	IsVector    bool

	// RequiredSelector and RequiredSource define the (selector kind, source
	// kind) cell this computer serves.
	RequiredSelector table.SelectorKind
	RequiredSource   source.Kind

	Parameters []ParameterDescriptor

	// IsMultiOutput marks computers registered through
	// RegisterMultiComputer. MakeOutputSuffixes, when non-nil, previews the
	// column name suffixes a parameter bag would produce.
	IsMultiOutput      bool
	MakeOutputSuffixes func(params map[string]string) []string
}

// AdapterInfo is the discoverable metadata for one registered adapter, which
// converts a source of InputKind into a view of OutputKind.
type AdapterInfo struct {
	Name        string
	Description string
	InputKind   source.Kind
	OutputKind  source.Kind
	Parameters  []ParameterDescriptor
}

// ComputerFactory builds a type-erased computer instance bound to a resolved
// source. The concrete value implements table.ColumnComputer[T] for the
// advertised element type; CreateTyped recovers the typed interface.
type ComputerFactory func(variant source.Variant, params map[string]string) (any, error)

// AdapterFactory builds a derived source from a concrete one.
type AdapterFactory func(variant source.Variant, params map[string]string) (source.Variant, error)
