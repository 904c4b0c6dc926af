package api

import (
	"encoding/json"
	"os"

	"github.com/lattice-labs/beacon-ctl/internal/logging"
)

// Credentials is the cached API identity written during device signup.
type Credentials struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"bearer_access_token"`
}

// LoadCredentials reads cached credentials from path.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// ClientFromCredentials builds an HTTP client from the cached
// credentials file. When the file is missing or unreadable the client
// falls back to anonymous access against fallbackBaseURL, so a device
// that has not completed signup can still reach public endpoints.
func ClientFromCredentials(path, fallbackBaseURL string) *HTTPClient {
	creds, err := LoadCredentials(path)
	if err != nil {
		logging.Warn("failed to read API credentials, calling api as anonymous user", "path", path, "error", err)
		return NewClient(fallbackBaseURL, "")
	}

	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = fallbackBaseURL
	}
	return NewClient(baseURL, creds.Token)
}
