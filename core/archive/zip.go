package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"asset-bundler/core/utils"
)

// Entry locates one file inside a built archive: the byte range of its data
// payload and, separately, the byte range of its local header entry. Header
// bytes are read by the runtime regardless of whether the payload ever is,
// so the two ranges are profiled independently.
type Entry struct {
	Path         string
	DataOffset   uint64
	DataSize     uint64
	HeaderOffset uint64
	HeaderSize   uint64
}

const (
	eocdSignature    = 0x06054b50
	centralSignature = 0x02014b50
	localSignature   = 0x04034b50

	eocdFixedSize    = 22
	centralFixedSize = 46
	localFixedSize   = 30
	maxCommentSize   = 0xffff
)

// List reads the archive's central directory and returns every contained
// file with its physical coordinates. Directory entries are skipped. Paths
// are returned in canonical asset-path form.
func List(bundlePath string) ([]Entry, error) {
	f, err := os.Open(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	cdOffset, cdSize, err := findCentralDirectory(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("archive %s: %w", bundlePath, err)
	}

	dir := make([]byte, cdSize)
	if _, err := f.ReadAt(dir, int64(cdOffset)); err != nil {
		return nil, fmt.Errorf("archive %s: failed to read central directory: %w", bundlePath, err)
	}

	var entries []Entry
	pos := 0
	for pos+centralFixedSize <= len(dir) {
		if binary.LittleEndian.Uint32(dir[pos:]) != centralSignature {
			break
		}
		compressedSize := binary.LittleEndian.Uint32(dir[pos+20:])
		nameLen := int(binary.LittleEndian.Uint16(dir[pos+28:]))
		extraLen := int(binary.LittleEndian.Uint16(dir[pos+30:]))
		commentLen := int(binary.LittleEndian.Uint16(dir[pos+32:]))
		headerOffset := binary.LittleEndian.Uint32(dir[pos+42:])

		if pos+centralFixedSize+nameLen > len(dir) {
			return nil, fmt.Errorf("archive %s: truncated central directory", bundlePath)
		}
		name := string(dir[pos+centralFixedSize : pos+centralFixedSize+nameLen])
		pos += centralFixedSize + nameLen + extraLen + commentLen

		if strings.HasSuffix(name, "/") {
			continue
		}

		headerSize, err := localHeaderSize(f, uint64(headerOffset))
		if err != nil {
			return nil, fmt.Errorf("archive %s: entry %q: %w", bundlePath, name, err)
		}

		entries = append(entries, Entry{
			Path:         utils.NormalizeAssetPath(name),
			DataOffset:   uint64(headerOffset) + headerSize,
			DataSize:     uint64(compressedSize),
			HeaderOffset: uint64(headerOffset),
			HeaderSize:   headerSize,
		})
	}

	return entries, nil
}

// findCentralDirectory locates the end-of-central-directory record and
// returns the central directory's offset and size.
func findCentralDirectory(r io.ReaderAt, fileSize int64) (offset, size uint64, err error) {
	tailSize := int64(eocdFixedSize + maxCommentSize)
	if tailSize > fileSize {
		tailSize = fileSize
	}
	if tailSize < eocdFixedSize {
		return 0, 0, fmt.Errorf("file too small to be an archive")
	}

	tail := make([]byte, tailSize)
	if _, err := r.ReadAt(tail, fileSize-tailSize); err != nil {
		return 0, 0, fmt.Errorf("failed to read archive tail: %w", err)
	}

	for i := len(tail) - eocdFixedSize; i >= 0; i-- {
		if binary.LittleEndian.Uint32(tail[i:]) != eocdSignature {
			continue
		}
		entryCount := binary.LittleEndian.Uint16(tail[i+10:])
		cdSize := binary.LittleEndian.Uint32(tail[i+12:])
		cdOffset := binary.LittleEndian.Uint32(tail[i+16:])
		if entryCount == 0xffff || cdSize == 0xffffffff || cdOffset == 0xffffffff {
			return 0, 0, fmt.Errorf("zip64 archives are not supported")
		}
		return uint64(cdOffset), uint64(cdSize), nil
	}
	return 0, 0, fmt.Errorf("no end-of-central-directory record found")
}

// localHeaderSize reads the local file header at the given offset and
// returns its full length including the name and extra fields. The extra
// field in the local header may differ from the central directory's, so it
// has to be read from the local record itself.
func localHeaderSize(r io.ReaderAt, headerOffset uint64) (uint64, error) {
	var buf [localFixedSize]byte
	if _, err := r.ReadAt(buf[:], int64(headerOffset)); err != nil {
		return 0, fmt.Errorf("failed to read local header: %w", err)
	}
	if binary.LittleEndian.Uint32(buf[:]) != localSignature {
		return 0, fmt.Errorf("bad local header signature at offset %d", headerOffset)
	}
	nameLen := uint64(binary.LittleEndian.Uint16(buf[26:]))
	extraLen := uint64(binary.LittleEndian.Uint16(buf[28:]))
	return localFixedSize + nameLen + extraLen, nil
}
