// Package reconcile merges the physical byte layout of built archives into
// the logical pack assignments computed from seed and dependency data.
//
// The logical side knows which pack each asset belongs to; the physical
// side knows where each asset's header and payload live inside a bundle.
// Reconciliation joins the two by relative path, producing records complete
// enough to drive the sampling log writer.
package reconcile
