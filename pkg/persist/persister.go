package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// stateDirPerm is the permission used for snapshot directories.
const stateDirPerm = 0o755

// Removal records how many extension callables one category removed.
type Removal struct {
	Category string `json:"category" yaml:"category"`
	Removed  int    `json:"removed"  yaml:"removed"`
}

// Snapshot is the reconciled state of one run. It can be reloaded to skip
// parsing and reconciliation on later runs.
type Snapshot struct {
	RunID           string           `json:"run_id"           yaml:"run_id"`
	CreatedAt       time.Time        `json:"created_at"       yaml:"created_at"`
	BreakingChanges []model.Artifact `json:"breaking_changes" yaml:"breaking_changes"`
	APIExtensions   []model.Artifact `json:"api_extensions"   yaml:"api_extensions"`
	Removals        []Removal        `json:"removals"         yaml:"removals"`
}

// Persister handles file I/O for a specific state type using a Codec.
type Persister[T any] struct {
	path  string
	codec Codec
}

// NewPersister creates a persister for path, choosing the codec from its extension.
func NewPersister[T any](path string) (*Persister[T], error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	return &Persister[T]{path: path, codec: codec}, nil
}

// Path returns the file this persister reads and writes.
func (p *Persister[T]) Path() string {
	return p.path
}

// Save writes state, creating the parent directory when needed.
func (p *Persister[T]) Save(state *T) error {
	dir := filepath.Dir(p.path)

	err := os.MkdirAll(dir, stateDirPerm)
	if err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	file, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	err = p.codec.Encode(file, state)
	if err != nil {
		_ = file.Close()

		return fmt.Errorf("encode state: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close state file: %w", err)
	}

	return nil
}

// Load restores state from the file.
func (p *Persister[T]) Load() (*T, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	var state T

	err = p.codec.Decode(file, &state)
	if err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	return &state, nil
}

// SaveSnapshot writes snap to path in the format its extension names.
func SaveSnapshot(path string, snap *Snapshot) error {
	p, err := NewPersister[Snapshot](path)
	if err != nil {
		return err
	}

	return p.Save(snap)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	p, err := NewPersister[Snapshot](path)
	if err != nil {
		return nil, err
	}

	return p.Load()
}
