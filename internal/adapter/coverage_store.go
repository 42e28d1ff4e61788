package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/JiayiXu/mutagen/internal/model"
)

// CoverageStore reads the coverage side file written by the instrumentation
// during a traced baseline pass. Absence of the file is an expected
// condition; the caller degrades to full-suite execution on any error.
type CoverageStore interface {
	Load(path m.Path) (m.CoverageMap, error)
}

// LocalCoverageStore reads the coverage map from a YAML snapshot.
type LocalCoverageStore struct{}

// NewLocalCoverageStore constructs a LocalCoverageStore.
func NewLocalCoverageStore() *LocalCoverageStore {
	return &LocalCoverageStore{}
}

// Load reads and decodes the coverage map at path.
func (s *LocalCoverageStore) Load(path m.Path) (m.CoverageMap, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.CoverageMap{}, fmt.Errorf("read coverage map: %w", err)
	}

	var coverage m.CoverageMap
	if err := yaml.Unmarshal(data, &coverage); err != nil {
		return m.CoverageMap{}, fmt.Errorf("decode coverage map %s: %w", path, err)
	}

	return coverage, nil
}
