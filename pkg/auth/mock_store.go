package auth

import (
	"sync"
)

// MockStore is an in-memory Store implementation for testing
type MockStore struct {
	mu          sync.RWMutex
	credentials map[string]*Credential
	storeErr    error
	retrieveErr error
}

// NewMockStore creates an in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{
		credentials: make(map[string]*Credential),
	}
}

// SetStoreError makes subsequent Store calls fail with err
func (m *MockStore) SetStoreError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErr = err
}

// SetRetrieveError makes subsequent Retrieve calls fail with err
func (m *MockStore) SetRetrieveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrieveErr = err
}

// Store saves a credential in memory
func (m *MockStore) Store(cred *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeErr != nil {
		return m.storeErr
	}
	if cred == nil || cred.Name == "" {
		return ErrInvalidCredential
	}

	c := *cred
	m.credentials[cred.Name] = &c
	return nil
}

// Retrieve gets a credential from memory
func (m *MockStore) Retrieve(name string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	cred, ok := m.credentials[name]
	if !ok {
		return nil, ErrCredentialNotFound
	}

	c := *cred
	return &c, nil
}

// List returns all credentials from memory
func (m *MockStore) List() ([]*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var creds []*Credential
	for _, cred := range m.credentials {
		c := *cred
		creds = append(creds, &c)
	}
	return creds, nil
}

// Delete removes a credential from memory
func (m *MockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.credentials[name]; !ok {
		return ErrCredentialNotFound
	}
	delete(m.credentials, name)
	return nil
}

// Exists checks if a credential exists in memory
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.credentials[name]
	return ok
}
