package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"fortio.org/safecast"
)

// Blob format: a flat concatenation of records, each
//
//	[id uint32 LE][length uint32 LE][raw ABC bytes]
//
// with no header and no framing between records. Next to the blob a
// msgpack sidecar index maps ids to byte ranges so single records can
// be fetched without replaying the whole file.

// Current schema version - increment when IndexPayload format changes.
const indexSchemaVersion uint16 = 2

// IndexSuffix is appended to the blob path for the sidecar index.
const IndexSuffix = ".idx"

var (
	ErrCorruptRecord = errors.New("corrupt blob record")
	ErrBadSchema     = errors.New("unknown index schema version")
)

// IndexEntry locates one record inside the blob.
type IndexEntry struct {
	ID     uint32
	Offset uint64
	Length uint32
}

// IndexPayload is the msgpack sidecar document. ContentHash is the
// SHA-256 of the whole blob, so a mismatched blob/sidecar pair is
// detected instead of yielding silently wrong records.
type IndexPayload struct {
	Schema      uint16
	ContentHash [sha256.Size]byte
	Entries     []IndexEntry
}

// SaveBlob writes every cached tune in ascending id order, then the
// sidecar index. Both files are written to temp files and renamed into
// place, so readers never observe a half-written blob.
func (c *Cache) SaveBlob(path string) error {
	ids := c.IDs()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	hash := sha256.New()
	w := io.MultiWriter(f, hash)

	entries := make([]IndexEntry, 0, len(ids))
	var offset uint64
	var header [8]byte
	for _, id := range ids {
		content, _ := c.Get(id)
		length, err := safecast.Conv[uint32](len(content))
		if err != nil {
			return fmt.Errorf("tune %d too large: %w", id, err)
		}
		binary.LittleEndian.PutUint32(header[0:4], id)
		binary.LittleEndian.PutUint32(header[4:8], length)
		if _, err := w.Write(header[:]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, content); err != nil {
			return err
		}
		entries = append(entries, IndexEntry{ID: id, Offset: offset, Length: length})
		offset += 8 + uint64(length)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	var sum [sha256.Size]byte
	copy(sum[:], hash.Sum(nil))
	return saveIndex(path+IndexSuffix, entries, sum)
}

func saveIndex(path string, entries []IndexEntry, sum [sha256.Size]byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	payload := IndexPayload{Schema: indexSchemaVersion, ContentHash: sum, Entries: entries}
	if err := enc.Encode(&payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadIndex reads the sidecar index for a blob.
func LoadIndex(blobPath string) (*IndexPayload, error) {
	f, err := os.Open(blobPath + IndexSuffix)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload IndexPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Schema != indexSchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadSchema, payload.Schema)
	}
	return &payload, nil
}

// LoadBlobIndexed loads a blob through its sidecar index, so records
// come out without replaying the record framing. A full load verifies
// the content hash, catching a blob swapped out from under its
// sidecar; a bounded load (maxID non-zero) reads only the selected
// byte ranges and skips the hash. Falls back to a full replay when the
// sidecar is missing.
func (c *Cache) LoadBlobIndexed(path string, maxID uint32) error {
	payload, err := LoadIndex(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.LoadBlob(path, maxID)
		}
		return err
	}

	if maxID == 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if sha256.Sum256(data) != payload.ContentHash {
			return fmt.Errorf("%w: blob does not match its sidecar index", ErrCorruptRecord)
		}
		for _, e := range payload.Entries {
			start := e.Offset + 8
			end := start + uint64(e.Length)
			if end > uint64(len(data)) {
				return fmt.Errorf("%w: record %d extends past end of file", ErrCorruptRecord, e.ID)
			}
			c.Put(e.ID, string(data[start:end]))
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	for _, e := range payload.Entries {
		if e.ID > maxID {
			continue
		}
		buf := make([]byte, e.Length)
		if _, err := f.ReadAt(buf, int64(e.Offset)+8); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrCorruptRecord, e.ID, err)
		}
		c.Put(e.ID, string(buf))
	}
	return nil
}

// LoadBlob replays a blob into the cache. maxID, when non-zero, skips
// records above it; useful for bounded debug runs against a large
// corpus. A record extending past the end of the file is corruption.
func (c *Cache) LoadBlob(path string, maxID uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	off := 0
	for off < len(data) {
		if off+8 > len(data) {
			return fmt.Errorf("%w: truncated header at offset %d", ErrCorruptRecord, off)
		}
		id := binary.LittleEndian.Uint32(data[off : off+4])
		length := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		if off+length > len(data) {
			return fmt.Errorf("%w: record %d extends past end of file", ErrCorruptRecord, id)
		}
		if maxID == 0 || id <= maxID {
			c.Put(id, string(data[off:off+length]))
		}
		off += length
	}
	return nil
}
