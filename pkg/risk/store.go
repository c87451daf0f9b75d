package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Save writes the forest as JSON. The file is written to a temporary path
// and renamed into place so readers never observe a partial model.
func Save(path string, f *Forest) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating model directory: %w", err)
		}
	}

	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing model: %w", err)
	}
	return nil
}

// Load reads a forest saved by Save. A missing file yields ErrNoModel.
func Load(path string) (*Forest, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoModel, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	var f Forest
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}
	if len(f.Trees) == 0 || len(f.Features) == 0 {
		return nil, fmt.Errorf("model %s is empty", path)
	}
	for i, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return nil, fmt.Errorf("model %s: tree %d has no nodes", path, i)
		}
		if err := t.check(len(f.Features)); err != nil {
			return nil, fmt.Errorf("decoding model %s: tree %d: %w", path, i, err)
		}
	}
	return &f, nil
}

// check verifies that every split reads a known feature and that children
// come after their parent, so walking the tree always reaches a leaf.
func (t *Tree) check(features int) error {
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		for _, c := range [2]int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
		}
	}
	return nil
}
