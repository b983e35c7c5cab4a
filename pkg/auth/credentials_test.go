package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	m := &Manager{stores: []Store{NewMockStore()}}

	err := m.Store(&Credential{Name: "vision", APIKey: "sk-test-key-12345678"})
	require.NoError(t, err)

	cred, err := m.Retrieve("vision")
	require.NoError(t, err)
	assert.Equal(t, "vision", cred.Name)
	assert.Equal(t, "sk-test-key-12345678", cred.APIKey)
	assert.False(t, cred.LastModified.IsZero())
}

func TestManagerStoreRequiresName(t *testing.T) {
	m := &Manager{stores: []Store{NewMockStore()}}

	err := m.Store(&Credential{APIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestManagerStoreRequiresKeyOrFile(t *testing.T) {
	m := &Manager{stores: []Store{NewMockStore()}}

	err := m.Store(&Credential{Name: "vision"})
	require.Error(t, err)

	err = m.Store(&Credential{Name: "vision", CredentialsFile: "/etc/vision.json"})
	require.NoError(t, err)
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.SetStoreError(errors.New("keychain locked"))
	working := NewMockStore()

	m := &Manager{stores: []Store{broken, working}}

	err := m.Store(&Credential{Name: "vision", APIKey: "sk-test-key-12345678"})
	require.NoError(t, err)

	assert.False(t, broken.Exists("vision"))
	assert.True(t, working.Exists("vision"))
}

func TestManagerRetrieveChecksAllStores(t *testing.T) {
	empty := NewMockStore()
	holder := NewMockStore()
	require.NoError(t, holder.Store(&Credential{Name: "vision", APIKey: "key"}))

	m := &Manager{stores: []Store{empty, holder}}

	cred, err := m.Retrieve("vision")
	require.NoError(t, err)
	assert.Equal(t, "key", cred.APIKey)
}

func TestManagerRetrieveNotFound(t *testing.T) {
	m := &Manager{stores: []Store{NewMockStore()}}

	_, err := m.Retrieve("missing")
	require.Error(t, err)
}

func TestManagerListPrefersNewestVersion(t *testing.T) {
	older := NewMockStore()
	require.NoError(t, older.Store(&Credential{
		Name:         "vision",
		APIKey:       "old-key",
		LastModified: time.Now().Add(-time.Hour),
	}))
	newer := NewMockStore()
	require.NoError(t, newer.Store(&Credential{
		Name:         "vision",
		APIKey:       "new-key",
		LastModified: time.Now(),
	}))

	m := &Manager{stores: []Store{older, newer}}

	creds, err := m.List()
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "new-key", creds[0].APIKey)
}

func TestManagerDeleteRemovesFromAllStores(t *testing.T) {
	a := NewMockStore()
	b := NewMockStore()
	require.NoError(t, a.Store(&Credential{Name: "vision", APIKey: "key"}))
	require.NoError(t, b.Store(&Credential{Name: "vision", APIKey: "key"}))

	m := &Manager{stores: []Store{a, b}}

	require.NoError(t, m.Delete("vision"))
	assert.False(t, a.Exists("vision"))
	assert.False(t, b.Exists("vision"))
}

func TestManagerDeleteNotFound(t *testing.T) {
	m := &Manager{stores: []Store{NewMockStore()}}

	err := m.Delete("missing")
	require.Error(t, err)
}

func TestEnvironmentStoreRetrieve(t *testing.T) {
	t.Setenv("IMAGEHARVEST_VISION_API_KEY", "env-key")
	t.Setenv("IMAGEHARVEST_VISION_CREDENTIALS_FILE", "")

	store := NewEnvironmentStore()

	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "vision", cred.Name)
	assert.Equal(t, "env-key", cred.APIKey)
	assert.True(t, store.Exists("vision"))
}

func TestEnvironmentStoreIsReadOnly(t *testing.T) {
	store := NewEnvironmentStore()

	assert.ErrorIs(t, store.Store(&Credential{Name: "vision", APIKey: "k"}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("vision"), ErrStoreUnavailable)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("IMAGEHARVEST_VAULT_PASSPHRASE", "test-passphrase")

	path := t.TempDir() + "/credentials.enc"
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(&Credential{Name: "vision", APIKey: "secret-key"}))

	// A fresh store instance with the same passphrase can read it back
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	cred, err := reopened.Retrieve("vision")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cred.APIKey)
}

func TestEncryptedFileStoreDeleteLastCredentialRemovesFile(t *testing.T) {
	t.Setenv("IMAGEHARVEST_VAULT_PASSPHRASE", "test-passphrase")

	path := t.TempDir() + "/credentials.enc"
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(&Credential{Name: "vision", APIKey: "secret-key"}))
	require.NoError(t, store.Delete("vision"))

	_, err = store.Retrieve("vision")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestSanitizeMasksKey(t *testing.T) {
	cred := &Credential{Name: "vision", APIKey: "sk-live-abcdef123456"}

	clean := Sanitize(cred)
	assert.Equal(t, "sk-l...3456", clean.APIKey)
	assert.Equal(t, "vision", clean.Name)

	assert.Equal(t, "********", Sanitize(&Credential{Name: "v", APIKey: "short"}).APIKey)
	assert.Nil(t, Sanitize(nil))
}
