// Package tables detects and structures tabular regions on a page. Three
// detection passes cooperate: a ruled pass driven by visible grid geometry,
// a borderless pass driven by cross-row whitespace alignment, and a content
// pass driven by token statistics. Candidates are merged with ruled results
// taking priority, then structured into typed tables with inferred headers
// and per-column type summaries.
//
// Detection is deliberately fail-soft. A pass that errors contributes
// nothing but a warning, and a page where every pass comes up empty simply
// has no tables; callers never see a detection error.
package tables
