// Package lamina turns positioned document content into layout-aware,
// retrieval-ready chunks.
//
// Basic usage:
//
//	engine := lamina.NewEngine()
//	chunks, warnings, err := engine.ChunkPages(ctx, pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", lamina.FormatWarnings(warnings))
//	}
//
// With configuration:
//
//	config := lamina.DefaultConfig()
//	config.Strategy = lamina.StrategyDensity
//	config.TargetChunkSize = 1200
//	engine, err := lamina.NewEngineWithConfig(config)
//
// Positionless sources have their own paths:
//
//	chunks := engine.ChunkText(plainText)
//	chunks, err := engine.ChunkHTML(htmlReader)
//
// The lower-level layout, tables, numeric, and rag packages are also
// available for callers that want to run individual stages.
package lamina

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	engine := lamina.Must(lamina.NewEngineWithConfig(config))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustChunks is a helper that wraps a call returning chunks, warnings, and
// an error, panicking on error and discarding warnings.
func MustChunks[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
