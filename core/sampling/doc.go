// Package sampling writes the line-oriented log consumed by the external
// disk-I/O profiling tool.
//
// Each line describes one expected read: bundle file, byte offset, byte
// length, and fixed marker fields. Packs appear in ascending id order,
// separated by marker lines; the required pack additionally carries a size
// sentinel. The output is byte-deterministic for a fixed input, which the
// profiling tool relies on for diffing runs.
package sampling
