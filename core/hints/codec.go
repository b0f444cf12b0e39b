package hints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"asset-bundler/core/catalog"
	"asset-bundler/core/pack"
)

// File extensions distinguishing seed-origin hints from pak-origin hints.
// The schema is identical; the extension only records which command produced
// the file.
const (
	SeedHintsExt = ".seed.assethints"
	PakHintsExt  = ".pak.assethints"

	// LevelHintsExt is the extension of the hint files the level export
	// pipeline generates next to each level.
	LevelHintsExt = ".assethints"
)

// Resolver supplies the catalog lookups used to cross-resolve a hint entry's
// identity and path when the file carries only one of them. Both lookups
// fail silently: an unknown path yields the invalid identity, an unknown
// identity yields the empty path.
type Resolver interface {
	IdentityByPath(assetPath string) catalog.Identity
	PathByIdentity(id catalog.Identity) string
}

// hintEntry is the JSON shape of one asset inside a hint file. Pointer
// fields distinguish absent members from zero values: subId 0 must survive a
// round trip, and guid/subId are omitted together when identity is invalid.
type hintEntry struct {
	GUID      *string `json:"guid,omitempty"`
	SubID     *uint32 `json:"subId,omitempty"`
	AssetHint *string `json:"assetHint,omitempty"`
}

// Write persists a pack-id-keyed record collection as a hint file. The
// document's member names are decimal pack ids in ascending order; empty
// groups are omitted, and an entirely empty collection writes no file.
//
// A record with neither a valid identity nor a path is a per-record
// serialization failure: it is reported in the returned error but written in
// whatever partial form it has, and the rest of the document is unaffected.
// The file appears atomically; a reader never observes a partial document.
func Write(filePath string, groups pack.Groups) error {
	var errs []error
	var buf bytes.Buffer
	buf.WriteString("{\n")

	first := true
	for _, id := range groups.SortedIDs() {
		recs := groups[id]
		if len(recs) == 0 {
			continue
		}

		entries := make([]hintEntry, 0, len(recs))
		for _, rec := range recs {
			entry, err := marshalRecord(rec)
			if err != nil {
				errs = append(errs, err)
			}
			entries = append(entries, entry)
		}

		data, err := json.MarshalIndent(entries, "  ", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode pack %d: %w", id, err)
		}

		if !first {
			buf.WriteString(",\n")
		}
		first = false
		fmt.Fprintf(&buf, "  %q: %s", strconv.FormatUint(uint64(id), 10), data)
	}

	if first {
		// Nothing to persist.
		return errors.Join(errs...)
	}
	buf.WriteString("\n}\n")

	if err := writeAtomic(filePath, buf.Bytes()); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Read parses a hint file and invokes fn once per record, in document
// member-then-array order. The top-level member name is authoritative for
// the pack id of every record under it. Read does not build a map itself;
// deduplication and merge policy belong to the caller.
func Read(filePath string, resolver Resolver, fn func(*pack.Record)) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read hint file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return parseError(data, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("hint file %s: expected a top-level object", filePath)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return parseError(data, err)
		}
		key, _ := keyTok.(string)

		packID, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return fmt.Errorf("hint file %s: member %q is not a pack id", filePath, key)
		}

		var entries []hintEntry
		if err := dec.Decode(&entries); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field == "" {
				return fmt.Errorf(
					"hint file %s: expecting an array under pack id %q but found %s", filePath, key, typeErr.Value)
			}
			return parseError(data, err)
		}

		for _, entry := range entries {
			fn(restoreRecord(pack.ID(packID), entry, resolver))
		}
	}

	if _, err := dec.Token(); err != nil {
		return parseError(data, err)
	}
	return nil
}

func marshalRecord(rec *pack.Record) (hintEntry, error) {
	var entry hintEntry
	if rec.Identity.IsValid() {
		guid := rec.Identity.GUID.String()
		subID := rec.Identity.SubID
		entry.GUID = &guid
		entry.SubID = &subID
	}
	if rec.Path != "" {
		path := rec.Path
		entry.AssetHint = &path
	}
	if entry.GUID == nil && entry.AssetHint == nil {
		return entry, errors.New("storing an asset record without a valid identity or a relative path")
	}
	return entry, nil
}

func restoreRecord(packID pack.ID, entry hintEntry, resolver Resolver) *pack.Record {
	rec := &pack.Record{Pack: pack.Assign(packID)}
	if entry.AssetHint != nil {
		rec.Path = *entry.AssetHint
	}

	if entry.GUID != nil && entry.SubID != nil {
		if guid, err := uuid.Parse(*entry.GUID); err == nil {
			rec.Identity = catalog.NewIdentity(guid, *entry.SubID)
		}
	} else if rec.Path != "" {
		// The lookup may fail silently; the hint then stays path-only.
		rec.Identity = resolver.IdentityByPath(rec.Path)
	}

	if rec.Path == "" && rec.Identity.IsValid() {
		rec.Path = resolver.PathByIdentity(rec.Identity)
	}
	return rec
}

// writeAtomic writes data to a sibling temp file and renames it over
// filePath, so readers see either the old document or the new one.
func writeAtomic(filePath string, data []byte) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp hint file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write hint file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp hint file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace hint file: %w", err)
	}
	return nil
}

func parseError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("JSON parse error at line %d: %s", lineOf(data, syntaxErr.Offset), syntaxErr)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("JSON parse error at line %d: %s", lineOf(data, typeErr.Offset), typeErr)
	}
	return err
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte{'\n'})
}
