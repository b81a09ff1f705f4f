package credentials

import (
	"fmt"
	"net/url"
)

// Source indicates where a token was found
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceNone    Source = "none"
)

// Credentials is a resolved API token
type Credentials struct {
	Host   string
	Token  string
	Source Source
}

// Resolver looks up the API token in priority order:
// keyring, then environment, then config file.
type Resolver struct {
	keyringAvailable func() bool
	keyringGet       func(host string) (string, error)
}

// NewResolver creates a resolver backed by the OS keyring
func NewResolver() *Resolver {
	return &Resolver{
		keyringAvailable: IsAvailable,
		keyringGet:       Get,
	}
}

// HostOf returns the host[:port] the keyring entry for apiURL is keyed by
func HostOf(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", apiURL)
	}
	return u.Host, nil
}

// Resolve finds the token for apiURL. Authentication is optional, so finding
// nothing is not an error: the result then has SourceNone and no token.
func (r *Resolver) Resolve(apiURL, configToken string) (*Credentials, error) {
	host, err := HostOf(apiURL)
	if err != nil {
		return nil, err
	}

	creds := &Credentials{Host: host, Source: SourceNone}

	if r.keyringAvailable() {
		if token, err := r.keyringGet(host); err == nil && token != "" {
			creds.Token = token
			creds.Source = SourceKeyring
			return creds, nil
		}
	}

	if token := GetToken(); token != "" {
		creds.Token = token
		creds.Source = SourceEnv
		return creds, nil
	}

	if configToken != "" {
		creds.Token = configToken
		creds.Source = SourceConfig
	}

	return creds, nil
}
