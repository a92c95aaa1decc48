package cardstock

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SchemaVersion is the current on-disk schema of the store file. Bare-array
// legacy files are reported as version 0 on read and rewritten at the
// current version on the next write.
const SchemaVersion = 1

// DefaultMaxBackups is the number of rotated snapshots kept next to the
// store file.
const DefaultMaxBackups = 30

const backupDirName = "backups"
const backupStamp = "20060102-150405"

// Store persists a catalog collection to a single JSON file.
//
// Writes are crash-safe: the new content is serialized to a temporary file
// in the store's directory and atomically renamed onto the path, so any
// reader observes either the previous complete content or the new complete
// content, never a partial write. Before each write the previous file is
// copied into a sibling backups/ directory and the directory pruned to
// MaxBackups files.
//
// The store does not coordinate concurrent writers: single-writer-per-path
// is a precondition. Two uncoordinated writers race on the final rename and
// the last one wins; callers must serialize runs externally (one scheduled
// job, an application-level cooldown on the on-demand path).
type Store struct {
	Path string
	// MaxBackups bounds the backups directory; zero means DefaultMaxBackups.
	MaxBackups int
}

// NewStore returns a store over the given file path with default settings.
func NewStore(path string) *Store { return &Store{Path: path} }

// Document is the enveloped on-disk shape of the store file.
type Document struct {
	SchemaVersion int       `json:"schemaVersion"`
	UpdatedAt     time.Time `json:"updatedAt"`
	TotalItems    int       `json:"totalItems"`
	Items         []Item    `json:"items"`
}

// Read loads the collection from the store file.
//
// Read is deliberately tolerant: a missing file yields an empty document, a
// malformed file is logged and yields an empty document, and both known
// on-disk shapes are accepted: the current envelope and the legacy bare
// array (reported as schema version 0). Every record passes through
// normalization, so the result always satisfies the collection invariants.
func (s *Store) Read() (Document, error) {
	doc := Document{SchemaVersion: SchemaVersion, Items: []Item{}}

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		log.Printf("warning: cannot read store file %q, treating as empty: %v", s.Path, err)
		return doc, nil
	}

	// Current shape: an envelope with an items list.
	var envelope struct {
		SchemaVersion int              `json:"schemaVersion"`
		UpdatedAt     string           `json:"updatedAt"`
		Items         []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Items != nil {
		doc.SchemaVersion = envelope.SchemaVersion
		if t := asTime(envelope.UpdatedAt); t != nil {
			doc.UpdatedAt = *t
		}
		doc.Items = NormalizeRawCollection(envelope.Items)
		doc.TotalItems = len(doc.Items)
		return doc, nil
	}

	// Legacy shape: a bare array of records.
	var raws []map[string]any
	if err := json.Unmarshal(data, &raws); err == nil {
		doc.SchemaVersion = 0
		doc.Items = NormalizeRawCollection(raws)
		doc.TotalItems = len(doc.Items)
		return doc, nil
	}

	log.Printf("warning: store file %q is malformed, treating as empty", s.Path)
	return doc, nil
}

// Write persists the collection to the store file.
//
// The previous file, when present, is first copied into the backups/
// directory under a sortable timestamp name and the directory pruned; a
// failed backup is logged and never blocks the write. The new content is
// then written to a temporary file in the same directory and renamed onto
// the path. A serialization or rename failure propagates to the caller:
// silently continuing would present a stale state as current.
func (s *Store) Write(items []Item) error {
	if err := s.backup(); err != nil {
		log.Printf("warning: backup of %q failed (write continues): %v", s.Path, err)
	}
	s.pruneBackups()

	doc := Document{
		SchemaVersion: SchemaVersion,
		UpdatedAt:     time.Now().UTC(),
		Items:         NormalizeCollection(items),
	}
	doc.TotalItems = len(doc.Items)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal store document: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}

	// The temp file must live in the same directory as the store file so
	// the final rename stays within one filesystem, where it is atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary store file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("cannot write temporary store file %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot close temporary store file %q: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot commit store file %q: %w", s.Path, err)
	}
	log.Printf("write-store file=%q items=%d", s.Path, doc.TotalItems)
	return nil
}

// backup copies the current store file into the backups directory under a
// sortable timestamp-based name.
func (s *Store) backup() error {
	src, err := os.Open(s.Path)
	if os.IsNotExist(err) {
		return nil // nothing to back up
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dir := filepath.Join(filepath.Dir(s.Path), backupDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.json", time.Now().Format(backupStamp), filepath.Base(s.Path))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	log.Printf("create-backup file=%q", dst.Name())
	return dst.Close()
}

// pruneBackups keeps only the most recently modified MaxBackups files in
// the backups directory. Failures are logged and swallowed; pruning must
// never block a write.
func (s *Store) pruneBackups() {
	max := s.MaxBackups
	if max <= 0 {
		max = DefaultMaxBackups
	}

	dir := filepath.Join(filepath.Dir(s.Path), backupDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	backups := make([]backup, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	if len(backups) <= max {
		return
	}

	// newest first, delete the tail
	sort.Slice(backups, func(i, j int) bool { return backups[i].modTime.After(backups[j].modTime) })
	for _, b := range backups[max:] {
		if err := os.Remove(b.path); err != nil {
			log.Printf("warning: cannot prune backup %q: %v", b.path, err)
			continue
		}
		log.Printf("delete-backup file=%q", b.path)
	}
}
