// Package storage manages the on-disk vault for uploaded digital files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const maxBaseNameLength = 100

// Vault stores uploaded files under a single directory with sanitized,
// collision-free names. Name allocation is serialized so two concurrent
// uploads with the same title cannot claim the same path.
type Vault struct {
	dir string
	mu  sync.Mutex
}

func NewVault(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}
	return &Vault{dir: dir}, nil
}

func (v *Vault) Dir() string {
	return v.dir
}

// Save writes the content to the vault under a name derived from baseName
// and ext, appending a numeric suffix when the name is taken. It returns
// the stored filename and the number of bytes written.
func (v *Vault) Save(baseName, ext string, content io.Reader) (string, int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	safe := SanitizeFilename(baseName)
	filename := safe + "." + ext
	path := filepath.Join(v.dir, filename)

	for counter := 1; ; counter++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to probe vault path: %w", err)
		}
		filename = fmt.Sprintf("%s_%d.%s", safe, counter, ext)
		path = filepath.Join(v.dir, filename)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create vault file: %w", err)
	}

	size, err := io.Copy(f, content)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write vault file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to close vault file: %w", err)
	}

	return filename, size, nil
}

// Resolve maps a stored filename back to an absolute path. The base-name
// strip prevents traversal out of the vault.
func (v *Vault) Resolve(filename string) (string, error) {
	path := filepath.Join(v.dir, filepath.Base(filename))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found in vault: %w", err)
	}
	return path, nil
}

func (v *Vault) Remove(filename string) error {
	return os.Remove(filepath.Join(v.dir, filepath.Base(filename)))
}

// SanitizeFilename strips characters that are unsafe in filenames and
// collapses whitespace to underscores.
func SanitizeFilename(name string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range name {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			// drop
		case r == ' ' || r == '\t':
			if !lastSpace && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	safe := strings.Trim(b.String(), "_")
	if len(safe) > maxBaseNameLength {
		safe = safe[:maxBaseNameLength]
	}
	if safe == "" {
		safe = "file"
	}
	return safe
}
