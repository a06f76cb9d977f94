package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"memoirvault/internal/common"
)

// Staging keeps in-flight upload chunks on local disk, one directory per
// upload session, one numbered file per chunk.
type Staging struct {
	root string
}

func NewStaging(root string) *Staging {
	return &Staging{root: root}
}

func (s *Staging) dir(uploadID string) string {
	return filepath.Join(s.root, uploadID)
}

// WriteChunk stores one chunk. Re-sending an index overwrites the previous
// copy, which makes client retries harmless.
func (s *Staging) WriteChunk(uploadID string, index int, data []byte) error {
	dir := s.dir(uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating staging dir: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%06d.chunk", index))
	if err := os.WriteFile(name, data, 0o600); err != nil {
		return fmt.Errorf("error writing chunk: %w", err)
	}
	return nil
}

// Assemble concatenates the staged chunks in index order and verifies the
// total size against declaredSize. A gap in the index sequence returns
// common.ErrIncompleteUpload; a size disagreement returns
// common.ErrSizeMismatch.
func (s *Staging) Assemble(uploadID string, declaredSize int64, w io.Writer) error {
	dir := s.dir(uploadID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading staging dir: %w", err)
	}

	indexes := make([]int, 0, len(entries))
	for _, e := range entries {
		base := e.Name()
		if filepath.Ext(base) != ".chunk" {
			continue
		}
		idx, err := strconv.Atoi(base[:len(base)-len(".chunk")])
		if err != nil {
			continue
		}
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var total int64
	for want, idx := range indexes {
		if idx != want {
			return common.ErrIncompleteUpload
		}
		f, err := os.Open(filepath.Join(dir, fmt.Sprintf("%06d.chunk", idx)))
		if err != nil {
			return fmt.Errorf("error opening chunk: %w", err)
		}
		n, err := io.Copy(w, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("error copying chunk: %w", err)
		}
		total += n
	}

	if total != declaredSize {
		return common.ErrSizeMismatch
	}
	return nil
}

// Cleanup removes all staged chunks of one upload.
func (s *Staging) Cleanup(uploadID string) error {
	return os.RemoveAll(s.dir(uploadID))
}
