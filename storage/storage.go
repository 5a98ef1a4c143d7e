// Package storage holds the key-value backends the lexicon persists into.
// Every backend exposes the same flat string-to-string layout, so a vault
// written by one can be copied key for key into another.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrBadPassphrase      = errors.New("storage: wrong passphrase or corrupted vault")
	ErrPassphraseRequired = errors.New("storage: vault is encrypted, passphrase required")
)

// KV is a flat string store. Set and Delete must be atomic: a reader never
// observes a partially written value.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	// Keys returns every key starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Options struct {
	Backend    string
	Path       string
	Passphrase string
	// Encrypt refuses to open a vault file without a passphrase, so a new
	// vault is never started in the clear by accident.
	Encrypt bool
}

// Open returns the backend named by opts.Backend.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case BackendFile, "":
		path, err := resolvePath(opts.Path, ".lexicon")
		if err != nil {
			return nil, err
		}
		if opts.Encrypt && opts.Passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		return OpenVault(path, opts.Passphrase)
	case BackendSQLite:
		path, err := resolvePath(opts.Path, ".lexicon.db")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

// DefaultPath is where a backend lives when no path is configured.
func DefaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, name), nil
}

// VaultEncrypted reports whether the file at path exists and is sealed.
func VaultEncrypted(path string) (bool, error) {
	path, err := resolvePath(path, ".lexicon")
	if err != nil {
		return false, err
	}
	vf, err := readVaultFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return vf.Sealed != nil, nil
}

func resolvePath(path, fallback string) (string, error) {
	if path == "" {
		return DefaultPath(fallback)
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
