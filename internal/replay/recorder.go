// Package replay persists the context of failed SKU batches as uniquely
// named JSON records and re-drives them in a later, independent pass.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sephora/crawler/internal/resolver"

	log "github.com/sirupsen/logrus"
)

// Recorder owns the on-disk error-record store. One JSON document is written
// per failed batch, keyed by (category, request fragment) so repeated
// failures of different batches never overwrite each other's context.
type Recorder struct {
	dir string
}

func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create error record dir %s: %w", dir, err)
	}
	return &Recorder{dir: dir}, nil
}

// Record persists an error context and returns the record id. A write
// failure is logged and reported but must not abort the caller's per-category
// loop; replay coverage is best-effort.
func (r *Recorder) Record(errCtx *resolver.ErrorContext) (string, error) {
	id := recordID(errCtx.Category, errCtx.SkusEndpoint)

	data, err := json.MarshalIndent(errCtx, "", "    ")
	if err != nil {
		log.Errorf("❌ Failed to serialize error record %s: %v", id, err)
		return "", fmt.Errorf("serialize error record: %w", err)
	}

	path := filepath.Join(r.dir, id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Errorf("❌ Failed to write error record %s: %v", id, err)
		return "", fmt.Errorf("write error record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Errorf("❌ Failed to write error record %s: %v", id, err)
		return "", fmt.Errorf("write error record: %w", err)
	}

	log.Warnf("🔄 Recorded failed batch for %s as %s", errCtx.Category, id)
	return id, nil
}

// List returns the ids of all persisted records in stable order.
func (r *Recorder) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list error records: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Recorder) Load(id string) (*resolver.ErrorContext, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, id))
	if err != nil {
		return nil, fmt.Errorf("read error record %s: %w", id, err)
	}

	var errCtx resolver.ErrorContext
	if err := json.Unmarshal(data, &errCtx); err != nil {
		return nil, fmt.Errorf("decode error record %s: %w", id, err)
	}
	return &errCtx, nil
}

// Remove deletes a record once its batch has been successfully replayed.
func (r *Recorder) Remove(id string) error {
	if err := os.Remove(filepath.Join(r.dir, id)); err != nil {
		return fmt.Errorf("remove error record %s: %w", id, err)
	}
	return nil
}

func recordID(category, endpoint string) string {
	return fmt.Sprintf("sku_mapping_%s_%s.json",
		sanitizeFragment(strings.ReplaceAll(category, " ", "_")),
		requestFragment(endpoint))
}

// requestFragment derives a stable identifying fragment from the failing
// request: the second comma-separated SKU identifier, falling back to the
// substring after the query marker when the request carried fewer than two
// identifiers.
func requestFragment(endpoint string) string {
	parts := strings.Split(endpoint, ",")
	if len(parts) >= 2 {
		return sanitizeFragment(parts[1])
	}
	if idx := strings.Index(endpoint, "?"); idx >= 0 && idx+1 < len(endpoint) {
		return sanitizeFragment(endpoint[idx+1:])
	}
	return sanitizeFragment(endpoint)
}

func sanitizeFragment(fragment string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, fragment)
}
