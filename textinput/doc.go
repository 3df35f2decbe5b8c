// Package textinput structures positionless sources: plain text and HTML.
// It produces the same unit stream the geometric layout path produces, so
// the chunk packer treats all sources identically. With no geometry
// available, headings and bullets are recognized from text shape, and HTML
// tables are structured directly from their markup.
package textinput
