// Package orchestrator wires the source -> form -> transformers -> renderer
// pipeline behind a single Generate call. Sources are definition files,
// encoded definitions, OpenAPI operations or an already built form.
package orchestrator
