// Package manifest manages manifest.json in the output directory: one entry
// per produced transcript file, used to build the index page.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/sonnes/kikitori/core"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Manifest holds the list of output entries.
type Manifest struct {
	Entries []core.ManifestEntry `json:"entries"`
}

// ReadFile reads a manifest from disk. Returns an empty Manifest if the file
// does not exist.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert adds or replaces an entry matched by Href. Output names are unique
// per input, model and format, so Href identifies an entry. After upserting,
// the entries are sorted newest-first by CreatedAt.
func (m *Manifest) Upsert(entry core.ManifestEntry) {
	for i, e := range m.Entries {
		if e.Href == entry.Href {
			m.Entries[i] = entry
			m.sort()
			return
		}
	}
	m.Entries = append(m.Entries, entry)
	m.sort()
}

// Prune drops entries whose file no longer exists under dir and returns the
// number removed.
func (m *Manifest) Prune(dir string) int {
	kept := m.Entries[:0]
	for _, e := range m.Entries {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(e.Href))); err == nil {
			kept = append(kept, e)
		}
	}
	removed := len(m.Entries) - len(kept)
	m.Entries = kept
	return removed
}

// Load reads the manifest of an output directory.
func Load(dir string) (*Manifest, error) {
	return ReadFile(filepath.Join(dir, FileName))
}

// Save writes the manifest into an output directory.
func (m *Manifest) Save(dir string) error {
	return m.WriteFile(filepath.Join(dir, FileName))
}

func (m *Manifest) sort() {
	sort.SliceStable(m.Entries, func(i, j int) bool {
		return m.Entries[i].CreatedAt.After(m.Entries[j].CreatedAt)
	})
}

// WriteFile writes the manifest to disk atomically using a temporary file and
// rename.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
