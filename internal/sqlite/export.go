// JSONL export. Writes every table to <dir>/<table>.jsonl using the atomic
// temp-file, fsync, rename pattern, for backup and git-friendly diffing.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/venturelab/workbench/pkg/types"
)

// Export writes every table's records as JSONL files under dir, creating it
// if needed. Returns the number of records written per table.
func (b *Backend) Export(dir string) (map[string]int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	counts := make(map[string]int, len(types.TableNames))
	for _, name := range types.TableNames {
		t := b.tables[name]
		records, err := t.fetchAllForExport()
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", name, err)
		}
		raw := make([]json.RawMessage, 0, len(records))
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return nil, fmt.Errorf("marshaling %s record: %w", name, err)
			}
			raw = append(raw, data)
		}
		if err := writeJSONLAtomic(filepath.Join(dir, name+".jsonl"), raw); err != nil {
			return nil, fmt.Errorf("writing %s.jsonl: %w", name, err)
		}
		counts[name] = len(raw)
	}
	return counts, nil
}

// fetchAllForExport returns every record in the table. The caller holds the
// backend read lock, so this bypasses the locking Fetch wrapper.
func (t *table) fetchAllForExport() ([]any, error) {
	switch t.name {
	case types.TableEntities:
		return t.fetchEntities(nil)
	case types.TableLinks:
		return t.fetchLinks(nil)
	case types.TableEvidence:
		return t.fetchEvidence(nil)
	case types.TableFeedback:
		return t.fetchFeedback(nil)
	case types.TableStages:
		return t.fetchStages(nil)
	case types.TableTouchpoints:
		return t.fetchTouchpoints(nil)
	default:
		return nil, types.ErrTableNotFound
	}
}

// writeJSONLAtomic writes records to a JSONL file via temp-file, fsync,
// rename so a crash never leaves a half-written export behind.
func writeJSONLAtomic(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
