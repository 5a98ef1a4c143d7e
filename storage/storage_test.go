package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the contract every backend must meet.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	_, ok, err := kv.Get("lexicon")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("lexicon", `{"A":["Apple"]}`))
	require.NoError(t, kv.Set("word_Apple", `{"notes":"red"}`))
	require.NoError(t, kv.Set("word_Banana", `{"notes":""}`))

	v, ok, err := kv.Get("lexicon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"A":["Apple"]}`, v)

	require.NoError(t, kv.Set("word_Apple", `{"notes":"green"}`))
	v, _, err = kv.Get("word_Apple")
	require.NoError(t, err)
	assert.Equal(t, `{"notes":"green"}`, v)

	keys, err := kv.Keys("word_")
	require.NoError(t, err)
	assert.Equal(t, []string{"word_Apple", "word_Banana"}, keys)

	require.NoError(t, kv.Delete("word_Banana"))
	require.NoError(t, kv.Delete("word_missing"))
	keys, err = kv.Keys("word_")
	require.NoError(t, err)
	assert.Equal(t, []string{"word_Apple"}, keys)
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestVaultPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault")
	v, err := OpenVault(path, "")
	require.NoError(t, err)
	exerciseKV(t, v)

	reopened, err := OpenVault(path, "")
	require.NoError(t, err)
	got, ok, err := reopened.Get("word_Apple")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"notes":"green"}`, got)

	enc, err := VaultEncrypted(path)
	require.NoError(t, err)
	assert.False(t, enc)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestVaultEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault")
	v, err := OpenVault(path, "s3cret")
	require.NoError(t, err)
	require.NoError(t, v.Set("lexicon", `{"Z":["zebra"]}`))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "zebra")

	enc, err := VaultEncrypted(path)
	require.NoError(t, err)
	assert.True(t, enc)

	_, err = OpenVault(path, "")
	assert.ErrorIs(t, err, ErrPassphraseRequired)

	_, err = OpenVault(path, "nope")
	assert.ErrorIs(t, err, ErrBadPassphrase)

	reopened, err := OpenVault(path, "s3cret")
	require.NoError(t, err)
	got, _, err := reopened.Get("lexicon")
	require.NoError(t, err)
	assert.Equal(t, `{"Z":["zebra"]}`, got)
}

func TestVaultRekey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault")
	v, err := OpenVault(path, "old")
	require.NoError(t, err)
	require.NoError(t, v.Set("k", "v"))
	require.NoError(t, v.Rekey("new"))

	_, err = OpenVault(path, "old")
	assert.ErrorIs(t, err, ErrBadPassphrase)

	reopened, err := OpenVault(path, "new")
	require.NoError(t, err)
	got, _, _ := reopened.Get("k")
	assert.Equal(t, "v", got)

	require.NoError(t, reopened.Rekey(""))
	enc, err := VaultEncrypted(path)
	require.NoError(t, err)
	assert.False(t, enc)
}

func TestVaultSetRollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	v, err := OpenVault(filepath.Join(dir, "sub", "vault"), "")
	require.NoError(t, err)

	// a file where the vault's directory should be
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), nil, 0600))

	assert.Error(t, v.Set("k", "v"))
	_, ok, _ := v.Get("k")
	assert.False(t, ok)
}

func TestSQLite(t *testing.T) {
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lex.db")
	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("lexicon", "{}"))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()
	got, ok, err := kv.Get("lexicon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", got)
}

func TestSQLiteKeysPrefixIsLiteral(t *testing.T) {
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("word_a%b", "1"))
	require.NoError(t, kv.Set("wordXab", "2"))

	keys, err := kv.Keys("word_")
	require.NoError(t, err)
	assert.Equal(t, []string{"word_a%b"}, keys)
}

func TestOpenSQLiteDriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := OpenSQLite(":memory:")
	assert.ErrorContains(t, err, "boom")
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(Options{Backend: BackendFile, Path: filepath.Join(dir, "v")})
	require.NoError(t, err)
	assert.IsType(t, &Vault{}, kv)

	kv, err = Open(Options{Backend: BackendSQLite, Path: filepath.Join(dir, "db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	require.NoError(t, kv.Close())

	_, err = Open(Options{Backend: BackendFile, Path: filepath.Join(dir, "sealed"), Encrypt: true})
	assert.ErrorIs(t, err, ErrPassphraseRequired)
	_, err = os.Stat(filepath.Join(dir, "sealed"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unknown backend")
}

func TestResolvePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := resolvePath("~/words", ".lexicon")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "words"), got)

	got, err = resolvePath("", ".lexicon")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lexicon"), got)
}
