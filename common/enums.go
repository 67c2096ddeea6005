// Package common holds enums shared between configuration and processing
// code, so neither has to import the other.
package common

//go:generate go tool go-enum --names --marshal

// Specification of how filtered stylesheet is written out.
// ENUM(pretty, compact, minified)
type OutputStyle int

// Ext returns file extension matching requested output style.
func (o OutputStyle) Ext() string {
	switch o {
	case OutputStyleMinified:
		return ".min.css"
	case OutputStylePretty, OutputStyleCompact:
		return ".css"
	default:
		// this should never happen
		panic("unsupported output style requested")
	}
}

// Specification of filtering mode, derived from "inverse" option.
// ENUM(colors, nocolors)
type FilterMode int
