package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the keyring service all gotodo tokens are stored under
	KeyringService = "gotodo"
)

// Set stores the API token for host in the OS keyring
func Set(host, token string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := keyring.Set(KeyringService, host, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Get retrieves the API token for host from the OS keyring
func Get(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("host cannot be empty")
	}

	token, err := keyring.Get(KeyringService, host)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no token found in keyring for %q: %w", host, err)
		}
		return "", fmt.Errorf("failed to retrieve token from keyring: %w", err)
	}
	return token, nil
}

// Delete removes the API token for host from the OS keyring
func Delete(host string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if err := keyring.Delete(KeyringService, host); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no token found in keyring for %q: %w", host, err)
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the keyring is accessible
func IsAvailable() bool {
	// A keyring that works answers ErrNotFound for an entry nobody wrote
	_, err := keyring.Get(KeyringService+"-probe", "probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
