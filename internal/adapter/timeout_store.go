package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "github.com/JiayiXu/mutagen/internal/model"
)

// TimeoutStore persists the ledger of (mutation id, test name) pairs that
// previously timed out. Single writer, single reader: runs are serialized,
// so no locking is needed.
type TimeoutStore interface {
	Load(path m.Path) (m.TimeoutLedger, error)
	Save(path m.Path, ledger m.TimeoutLedger) error
	// Clear removes the persisted ledger. A missing file is not an error.
	Clear(path m.Path) error
}

// LocalTimeoutStore keeps the ledger as a YAML snapshot on disk.
type LocalTimeoutStore struct{}

// NewLocalTimeoutStore constructs a LocalTimeoutStore.
func NewLocalTimeoutStore() *LocalTimeoutStore {
	return &LocalTimeoutStore{}
}

// Load reads the ledger at path. A missing file yields an empty ledger.
func (s *LocalTimeoutStore) Load(path m.Path) (m.TimeoutLedger, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.TimeoutLedger{}, nil
		}

		return m.TimeoutLedger{}, fmt.Errorf("read timeout ledger: %w", err)
	}

	var ledger m.TimeoutLedger
	if err := yaml.Unmarshal(data, &ledger); err != nil {
		return m.TimeoutLedger{}, fmt.Errorf("decode timeout ledger %s: %w", path, err)
	}

	return ledger, nil
}

// Save writes the ledger snapshot, creating parent directories as needed.
func (s *LocalTimeoutStore) Save(path m.Path, ledger m.TimeoutLedger) error {
	data, err := yaml.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode timeout ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return fmt.Errorf("create timeout ledger dir: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write timeout ledger: %w", err)
	}

	return nil
}

// Clear removes the ledger file so stale hang data cannot suppress
// re-verification after the binary or catalog changed.
func (s *LocalTimeoutStore) Clear(path m.Path) error {
	if err := os.Remove(string(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove timeout ledger: %w", err)
	}

	return nil
}
