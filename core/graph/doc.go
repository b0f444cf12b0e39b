// Package graph walks the asset dependency graph to cascade pack ids from
// seed assets to everything they transitively pull in.
//
// The walker consults an external dependency oracle (per platform) and
// mutates an identity-keyed pack map in place. It is deliberately
// infallible: a dependency-resolution gap on one edge degrades the pack
// plan rather than aborting the whole pass.
package graph
