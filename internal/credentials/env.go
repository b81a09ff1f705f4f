package credentials

import (
	"os"
	"strings"
)

// EnvToken holds the API token when it is not in the keyring
const EnvToken = "GOTODO_API_TOKEN"

// GetToken retrieves the API token from the environment
func GetToken() string {
	return strings.TrimSpace(os.Getenv(EnvToken))
}
