// Package archive reads the physical layout of built bundle files.
//
// Bundles are standard zip containers. The lister parses the central
// directory directly instead of going through archive/zip because the
// sampling model needs the byte range of each entry's local header as well
// as its data payload, and the standard reader does not expose header
// offsets.
package archive
