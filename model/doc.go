// Package model defines the shared data model for layout-aware chunking:
// geometry (Point, BBox), input types (TextItem, Rect, Ruling, PageInput),
// derived layout structures (Line, Column, LayoutRegion), the structured
// unit and table records, and the final Chunk output type.
//
// All types in this package are plain values with no behavior beyond
// derived accessors. Inputs are immutable snapshots per page; derived
// structures are regenerated per page and never persisted.
package model
