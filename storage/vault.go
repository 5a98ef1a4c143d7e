package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/electr1fy0/lexicon/crypto"
)

const vaultVersion = 1

type vaultFile struct {
	Version int               `json:"version"`
	Data    map[string]string `json:"data,omitempty"`
	Sealed  *crypto.Envelope  `json:"sealed,omitempty"`
}

// Vault keeps the whole key space in one JSON file and rewrites it on every
// mutation. With a passphrase the data map is sealed before it hits disk.
type Vault struct {
	path       string
	passphrase string
	data       map[string]string
}

// OpenVault loads path, or starts empty if it does not exist yet.
func OpenVault(path, passphrase string) (*Vault, error) {
	v := &Vault{
		path:       path,
		passphrase: passphrase,
		data:       make(map[string]string),
	}

	vf, err := readVaultFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return nil, err
	}

	if vf.Sealed != nil {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		plain, err := crypto.Open(*vf.Sealed, passphrase)
		if err != nil {
			return nil, ErrBadPassphrase
		}
		if err := json.Unmarshal(plain, &v.data); err != nil {
			return nil, err
		}
	} else if vf.Data != nil {
		v.data = vf.Data
	}
	return v, nil
}

func readVaultFile(path string) (*vaultFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vf vaultFile
	if err := json.Unmarshal(raw, &vf); err != nil {
		return nil, err
	}
	return &vf, nil
}

func (v *Vault) Path() string { return v.path }

func (v *Vault) Get(key string) (string, bool, error) {
	val, ok := v.data[key]
	return val, ok, nil
}

func (v *Vault) Set(key, value string) error {
	prev, had := v.data[key]
	v.data[key] = value
	if err := v.flush(); err != nil {
		if had {
			v.data[key] = prev
		} else {
			delete(v.data, key)
		}
		return err
	}
	return nil
}

func (v *Vault) Delete(key string) error {
	prev, had := v.data[key]
	if !had {
		return nil
	}
	delete(v.data, key)
	if err := v.flush(); err != nil {
		v.data[key] = prev
		return err
	}
	return nil
}

func (v *Vault) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range v.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Rekey reseals the vault under a new passphrase. An empty passphrase
// stores it in the clear.
func (v *Vault) Rekey(passphrase string) error {
	old := v.passphrase
	v.passphrase = passphrase
	if err := v.flush(); err != nil {
		v.passphrase = old
		return err
	}
	return nil
}

func (v *Vault) Close() error { return nil }

func (v *Vault) flush() error {
	vf := vaultFile{Version: vaultVersion}
	if v.passphrase == "" {
		vf.Data = v.data
	} else {
		plain, err := json.Marshal(v.data)
		if err != nil {
			return err
		}
		env, err := crypto.Seal(plain, v.passphrase)
		if err != nil {
			return err
		}
		vf.Sealed = env
	}

	out, err := json.Marshal(vf)
	if err != nil {
		return err
	}
	return writeFileAtomic(v.path, out, 0600)
}

// writeFileAtomic writes to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
