// Package rag packs structured units into retrieval-ready chunks. Chunks
// target a configured character size with a bounded overlap carried between
// consecutive prose chunks at natural break points. Table groups stay
// intact under a relaxed size ceiling and split only at row boundaries,
// with the header row repeated in continuations.
//
// The package also exports chunks as JSONL, JSON, CSV, or TSV, and computes
// summary statistics over a chunk set.
package rag
