// =============================================================================
// billforge - Issuer Profile Store
// =============================================================================
//
// A persisted issuer identity (company name, contact and bank details) kept
// as a JSON blob under a fixed namespace key, mirroring the browser
// key-value store this replaces. The store is read at merge time and written
// only by the explicit save actions (CLI `profile set`, HTTP profile
// endpoint), never implicitly by extraction or recomputation.
//
// =============================================================================

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Namespace is the key the profile lives under inside the store file.
const Namespace = "userInvoiceInfo"

// Profile is a flat mapping of issuer fields. Keys follow the canonical
// field names, but Merge also accepts the legacy email/phone scheme.
type Profile map[string]string

// Store persists one Profile to a JSON file on disk.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved profile. A missing store file is not an error; it
// returns a nil profile, which the merger treats as the identity overlay.
func (s *Store) Load() (Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}

	var blob map[string]Profile
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to parse profile store: %w", err)
	}
	return blob[Namespace], nil
}

// Save writes the profile, creating the parent directory if needed. The
// file is written whole; there is no partial update.
func (s *Store) Save(p Profile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	blob := map[string]Profile{Namespace: p}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	return nil
}
