package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements Store using environment variables.
// Useful in CI and containers where no keychain exists.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets a credential from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	apiKey := os.Getenv("IMAGEHARVEST_VISION_API_KEY")
	credsFile := os.Getenv("IMAGEHARVEST_VISION_CREDENTIALS_FILE")

	if apiKey == "" && credsFile == "" {
		return nil, ErrCredentialNotFound
	}

	if name == "" {
		name = "vision"
	}

	return &Credential{
		Name:            name,
		APIKey:          apiKey,
		CredentialsFile: credsFile,
		LastModified:    time.Now(),
	}, nil
}

// List returns a single credential if environment variables are set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("IMAGEHARVEST_VISION_API_KEY") != "" ||
		os.Getenv("IMAGEHARVEST_VISION_CREDENTIALS_FILE") != ""
}
