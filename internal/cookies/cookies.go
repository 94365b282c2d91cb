// Package cookies sources the auth_token/ct0 cookie pair the bird tool
// needs, trying the environment, a saved cookies file, and the tool's
// own browser auto-detection, in that order.
package cookies

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// BirdManaged marks cookies the tool resolves from the browser itself;
// the actual values never pass through this process.
const BirdManaged = "[bird-managed]"

// Cookies is the authentication cookie pair.
type Cookies struct {
	AuthToken string `json:"auth_token"`
	CT0       string `json:"ct0"`
}

// Valid reports whether both values are present.
func (c Cookies) Valid() bool {
	return c.AuthToken != "" && c.CT0 != ""
}

// Managed reports whether the tool resolves the cookies itself.
func (c Cookies) Managed() bool {
	return c.AuthToken == BirdManaged
}

// EnvFormat renders the pair as .env file content.
func (c Cookies) EnvFormat() string {
	return fmt.Sprintf("AUTH_TOKEN=%s\nCT0=%s\n", c.AuthToken, c.CT0)
}

// WhoamiClient is the slice of the bird client used for auth probing.
type WhoamiClient interface {
	Whoami(ctx context.Context) (string, error)
}

// File returns the path of the saved cookies file.
func File() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "xscrape", "cookies.json"), nil
}

// FromEnv reads the pair from AUTH_TOKEN/CT0, returning ok only when
// both are set.
func FromEnv() (Cookies, bool) {
	c := Cookies{
		AuthToken: os.Getenv("AUTH_TOKEN"),
		CT0:       os.Getenv("CT0"),
	}
	return c, c.Valid()
}

// LoadFile reads a saved cookies file. A missing file is not an error;
// ok is false.
func LoadFile(path string) (Cookies, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Cookies{}, false, nil
		}
		return Cookies{}, false, fmt.Errorf("read cookies file: %w", err)
	}
	var c Cookies
	if err := json.Unmarshal(data, &c); err != nil {
		return Cookies{}, false, fmt.Errorf("decode cookies file: %w", err)
	}
	return c, true, nil
}

// SaveFile writes the pair to path, creating parent directories. The
// file is user-only since it holds credentials.
func SaveFile(path string, c Cookies) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cookies file: %w", err)
	}
	return nil
}

// DetectViaBird probes whether the tool can authenticate on its own by
// pulling cookies from an installed browser. On success the returned
// pair carries placeholder values; the tool keeps the real ones.
func DetectViaBird(ctx context.Context, client WhoamiClient, logger *zap.Logger) (Cookies, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	username, err := client.Whoami(ctx)
	if err != nil || username == "" {
		logger.Debug("bird auto-auth unavailable", zap.Error(err))
		return Cookies{}, false
	}
	logger.Info("bird auto-auth succeeded", zap.String("username", username))
	return Cookies{AuthToken: BirdManaged, CT0: BirdManaged}, true
}

// Best resolves cookies from the highest-priority available source:
// environment, then the saved file, then bird auto-detection.
func Best(ctx context.Context, client WhoamiClient, logger *zap.Logger) (Cookies, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c, ok := FromEnv(); ok {
		logger.Debug("using env cookies")
		return c, true
	}
	if path, err := File(); err == nil {
		c, ok, err := LoadFile(path)
		if err != nil {
			logger.Warn("saved cookies unreadable", zap.String("path", path), zap.Error(err))
		} else if ok && c.Valid() && !c.Managed() {
			logger.Debug("using saved cookies", zap.String("path", path))
			return c, true
		}
	}
	if client != nil {
		if c, ok := DetectViaBird(ctx, client, logger); ok {
			logger.Debug("using bird auto-detected cookies")
			return c, true
		}
	}
	return Cookies{}, false
}

// ManualInstructions returns the walkthrough for extracting the cookie
// pair from a browser by hand.
func ManualInstructions() string {
	return `To extract X/Twitter cookies manually:

1. Open X.com in your browser and ensure you're logged in
2. Open Developer Tools (F12 or Cmd+Option+I)
3. Go to the "Application" tab (Chrome) or "Storage" tab (Firefox)
4. Under "Cookies", find "x.com" or "twitter.com"
5. Find and copy these two cookies:
   - auth_token
   - ct0

6. Set them as environment variables:
   export AUTH_TOKEN=your_auth_token_value
   export CT0=your_ct0_value

Or save them to a .env file:
   AUTH_TOKEN=your_auth_token_value
   CT0=your_ct0_value

Alternatively, bird can auto-extract from Safari/Chrome/Firefox:
   bird whoami

If bird authenticates successfully, you don't need to set cookies manually.
`
}
