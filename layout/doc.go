// Package layout reconstructs reading structure from positioned page
// content. It assembles raw text items into lines, classifies the page's
// column layout from weighted geometric evidence, and orders paragraphs,
// headings, bullets, and table rows into a single reading stream.
//
// The entry point is the Inferrer interface. RuleBasedInferrer composes
// the individual stages and is the default strategy; DensityInferrer is an
// alternate strategy that finds reading streams by horizontal occupancy
// clustering instead of discrete evidence signals. The stages are also
// exported individually for callers that want to run them separately.
package layout
