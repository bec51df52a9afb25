// Package filestore keeps uploaded requirement documents on local disk.
// Files are written to a temp name, hashed while streaming, synced and then
// renamed into place so a reader never sees a partial document.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStore struct {
	dataDir string
}

type SaveResult struct {
	// StoragePath is relative to the data dir and is the handle stored on
	// the document row.
	StoragePath string
	FullPath    string
	Size        int64
	Checksum    string
}

func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dataDir, err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

// Save streams reader to disk under a generated name derived from
// originalFilename and owner.
func (fs *FileStore) Save(reader io.Reader, originalFilename, owner string) (*SaveResult, error) {
	storageName := generateStorageName(originalFilename, owner)
	fullPath := filepath.Join(fs.dataDir, storageName)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(f, io.TeeReader(reader, hasher))
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}

	return &SaveResult{
		StoragePath: storageName,
		FullPath:    fullPath,
		Size:        size,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open returns the stored file. Callers close it.
func (fs *FileStore) Open(storagePath string) (*os.File, error) {
	f, err := os.Open(fs.FullPath(storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", storagePath, err)
	}
	return f, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (fs *FileStore) Delete(storagePath string) error {
	err := os.Remove(fs.FullPath(storagePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", storagePath, err)
	}
	return nil
}

func (fs *FileStore) Exists(storagePath string) bool {
	_, err := os.Stat(fs.FullPath(storagePath))
	return err == nil
}

// FullPath joins storagePath onto the data dir. Path elements that would
// escape the data dir are dropped.
func (fs *FileStore) FullPath(storagePath string) string {
	return filepath.Join(fs.dataDir, filepath.Base(filepath.Clean("/"+storagePath)))
}

func (fs *FileStore) DataDir() string {
	return fs.dataDir
}

// generateStorageName builds {name}_{owner}_{timestamp}_{uuid8}.{ext}.
func generateStorageName(originalFilename, owner string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))

	name = sanitize(name)
	user := sanitize(owner)

	if len(name) > 50 {
		name = name[:50]
	}
	if len(user) > 20 {
		user = user[:20]
	}

	ts := time.Now().UTC().Format("20060102150405")
	uid := uuid.New().String()[:8]

	if ext != "" {
		return fmt.Sprintf("%s_%s_%s_%s%s", name, user, ts, uid, sanitizeExt(ext))
	}
	return fmt.Sprintf("%s_%s_%s_%s", name, user, ts, uid)
}

// sanitize keeps ASCII letters, digits, dash and underscore.
func sanitize(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "file"
	}
	return result.String()
}

func sanitizeExt(ext string) string {
	clean := sanitize(strings.TrimPrefix(ext, "."))
	if clean == "file" && ext != ".file" {
		return ""
	}
	return "." + clean
}
