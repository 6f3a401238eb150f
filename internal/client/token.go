package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// tokenFile is the file name holding the anonymous token inside the
// application config directory.
const tokenFile = "token"

// appDir is the directory under the user config dir owning our state.
const appDir = "voice-cv"

// TokenError represents a failure loading or persisting the local token.
type TokenError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TokenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("token error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("token error for %s: %s", e.Path, e.Message)
}

func (e *TokenError) Unwrap() error {
	return e.Cause
}

// TokenPath returns the path of the persisted token file.
func TokenPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", &TokenError{Message: "cannot resolve user config dir", Cause: err}
	}
	return filepath.Join(configDir, appDir, tokenFile), nil
}

// LoadToken returns the persisted anonymous token, generating and storing a
// new one on first use. The token identifies this installation across
// sessions; it carries no account or payment credentials by itself.
func LoadToken() (string, error) {
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	return LoadTokenAt(path)
}

// LoadTokenAt is LoadToken with an explicit storage path.
func LoadTokenAt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, nil
		}
	} else if !os.IsNotExist(err) {
		return "", &TokenError{Path: path, Message: "cannot read token", Cause: err}
	}

	token := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", &TokenError{Path: path, Message: "cannot create config dir", Cause: err}
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", &TokenError{Path: path, Message: "cannot persist token", Cause: err}
	}
	return token, nil
}
