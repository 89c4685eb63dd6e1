package generation

import (
	"errors"
	"os"
	"strings"
)

// TokenEnvVar is the environment variable holding the inference API token.
const TokenEnvVar = "HUGGINGFACE_API_TOKEN"

// errNoToken is wrapped into ErrConfiguration when no token is available.
var errNoToken = errors.New("token is empty")

// CredentialProvider supplies the bearer token for a call.
type CredentialProvider interface {
	Token() (string, error)
}

// EnvCredential reads the token from an environment variable on every call.
type EnvCredential string

func (e EnvCredential) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(string(e)))
	if token == "" {
		return "", errNoToken
	}
	return token, nil
}

// StaticCredential always returns the same token.
type StaticCredential string

func (s StaticCredential) Token() (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errNoToken
	}
	return string(s), nil
}
