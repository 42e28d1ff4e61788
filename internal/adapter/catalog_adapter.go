// Package adapter provides the infrastructure components the runner depends
// on: catalog parsing, child process execution and side-file stores.
package adapter

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	m "github.com/JiayiXu/mutagen/internal/model"
)

const (
	countSeparator = " - "
	spanSeparator  = " @ "
)

// CatalogAdapter abstracts access to the mutation catalog written by the
// instrumentation plugin.
type CatalogAdapter interface {
	// Load reads and parses the catalog at path, preserving source order.
	// Any malformed line is a fatal error naming the offending line.
	Load(path m.Path) ([]m.Mutation, error)
}

// LocalCatalogAdapter reads the catalog from the local filesystem.
type LocalCatalogAdapter struct{}

// NewLocalCatalogAdapter constructs a LocalCatalogAdapter.
func NewLocalCatalogAdapter() *LocalCatalogAdapter {
	return &LocalCatalogAdapter{}
}

// Load reads the catalog file and parses it line by line. Blank lines are
// skipped. Uniqueness of ids is not validated here: that is the
// instrumentation's responsibility, and a duplicate id is simply tried twice.
func (a *LocalCatalogAdapter) Load(path m.Path) ([]m.Mutation, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read mutation catalog: %w", err)
	}

	var mutations []m.Mutation

	for i, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}

		mutation, err := ParseMutation(line)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", i+1, err)
		}

		mutations = append(mutations, mutation)
	}

	return mutations, nil
}

// ParseMutation parses a single catalog line of the form
// "<id> - <description> @ <span>". The description and span are free text;
// the separators are matched at their first occurrence.
func ParseMutation(line string) (m.Mutation, error) {
	head, tail, ok := strings.Cut(line, countSeparator)
	if !ok {
		return m.Mutation{}, fmt.Errorf("count separator not found on mutation %q", line)
	}

	description, span, ok := strings.Cut(tail, spanSeparator)
	if !ok {
		return m.Mutation{}, fmt.Errorf("span separator not found on mutation %q", line)
	}

	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return m.Mutation{}, fmt.Errorf("invalid mutation count %q: %w", head, err)
	}

	return m.Mutation{
		ID:          uint(id),
		Description: description,
		Span:        span,
	}, nil
}
