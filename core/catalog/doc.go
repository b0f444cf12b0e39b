// Package catalog models asset identity and provides access to the per
// platform asset catalog files produced by the asset pipeline.
//
// An asset is identified either by a stable Identity (source GUID plus sub
// id) or, for entries that never went through the catalog, by its engine
// cache relative path. The Catalog type indexes one platform's catalog file
// and serves the lookups the rest of the tool needs:
//
//   - path -> identity and identity -> path resolution
//   - direct dependency edges for the graph walker
//   - wildcard matching of exclusion patterns against cataloged paths
//
// Consumers depend on narrow interfaces (graph.Oracle, hints.Resolver)
// rather than on Catalog directly, so tests can substitute mocks.
package catalog
