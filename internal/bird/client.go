// Package bird wraps the Bird CLI, the external tool that owns X's GraphQL
// protocol: cookie authentication, query-id rotation, and wire-level rate
// limit handling. This package treats it as an opaque executable and turns
// its exit status and stderr text into typed failures.
package bird

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Test seams, following the pattern used for other tool wrappers.
var (
	commandContext = exec.CommandContext
	lookPath       = exec.LookPath
)

const (
	defaultBinary = "bird"

	envAuthToken  = "AUTH_TOKEN"
	envCSRFToken  = "CT0"
	envHTTPSProxy = "HTTPS_PROXY"
	envHTTPProxy  = "HTTP_PROXY"

	defaultReadTimeout    = 60 * time.Second
	defaultRefreshTimeout = 120 * time.Second
	defaultVersionTimeout = 10 * time.Second
	defaultWhoamiTimeout  = 30 * time.Second
)

// Config carries the credentials and timeouts for a Client.
type Config struct {
	AuthToken string
	CSRFToken string
	ProxyURL  string

	ReadTimeout    time.Duration
	RefreshTimeout time.Duration
	VersionTimeout time.Duration
	WhoamiTimeout  time.Duration
}

// Client invokes the Bird CLI as a subprocess. Construction verifies the
// binary is on PATH; a missing tool fails fast instead of burning the retry
// budget of every job in a batch.
type Client struct {
	cfg    Config
	binary string
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// NewClient builds a Client and verifies the tool is installed.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = defaultRefreshTimeout
	}
	if cfg.VersionTimeout <= 0 {
		cfg.VersionTimeout = defaultVersionTimeout
	}
	if cfg.WhoamiTimeout <= 0 {
		cfg.WhoamiTimeout = defaultWhoamiTimeout
	}
	c := &Client{cfg: cfg, binary: defaultBinary, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := lookPath(c.binary); err != nil {
		return nil, &Error{
			Kind:    KindToolMissing,
			Message: fmt.Sprintf("%s not found on PATH; install it with: bun install -g @nicepkg/bird", c.binary),
		}
	}
	return c, nil
}

// mergeEnv layers credential and proxy overrides onto a copy of the base
// environment (the ambient process environment when base is nil). The
// ambient environment is never mutated; every invocation gets its own
// slice. Bird routes SOCKS proxies through the standard proxy variables and
// does not distinguish transport scheme, so both are set to the same value.
func (c *Client) mergeEnv(base []string, proxyOverride string) []string {
	if base == nil {
		base = os.Environ()
	}
	env := append([]string(nil), base...)
	if c.cfg.AuthToken != "" {
		env = append(env, envAuthToken+"="+c.cfg.AuthToken)
	}
	if c.cfg.CSRFToken != "" {
		env = append(env, envCSRFToken+"="+c.cfg.CSRFToken)
	}
	proxy := c.cfg.ProxyURL
	if proxyOverride != "" {
		proxy = proxyOverride
	}
	if proxy != "" {
		env = append(env, envHTTPSProxy+"="+proxy)
		env = append(env, envHTTPProxy+"="+proxy)
	}
	return env
}

type invokeResult struct {
	exitCode int
	stdout   []byte
	stderr   string
}

// invoke runs the tool with a wall-clock ceiling and captures both streams.
// Timeouts and a missing binary surface as typed errors; a plain nonzero
// exit comes back in the result for the caller to classify.
func (c *Client) invoke(ctx context.Context, timeout time.Duration, proxyOverride string, args ...string) (invokeResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := commandContext(runCtx, c.binary, args...) //nolint:gosec
	cmd.Env = c.mergeEnv(cmd.Env, proxyOverride)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := invokeResult{
		stdout: stdout.Bytes(),
		stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return res, &Error{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("%s %s timed out after %s", c.binary, args[0], timeout),
			Stderr:  res.stderr,
		}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return res, &Error{
			Kind:    KindToolMissing,
			Message: fmt.Sprintf("%s not found on PATH", c.binary),
		}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("run %s: %w", c.binary, err)
}

// ReadPost fetches one post by URL and returns the tool's raw JSON stdout.
// A non-empty proxyOverride replaces the configured proxy for this call
// only. Nonzero exits are classified from stderr per the fixed precedence.
func (c *Client) ReadPost(ctx context.Context, url, proxyOverride string) ([]byte, error) {
	c.logger.Debug("invoking bird read", zap.String("url", url))

	res, err := c.invoke(ctx, c.cfg.ReadTimeout, proxyOverride, "read", url, "--json")
	if err != nil {
		return nil, err
	}
	if res.exitCode != 0 {
		kind := Classify(res.exitCode, res.stderr)
		c.logger.Error("bird read failed",
			zap.String("url", url),
			zap.Int("exit_code", res.exitCode),
			zap.String("kind", string(kind)),
			zap.String("stderr", res.stderr),
		)
		return nil, &Error{
			Kind:     kind,
			Message:  classifyMessage(kind),
			Stderr:   res.stderr,
			ExitCode: res.exitCode,
		}
	}
	return res.stdout, nil
}

// RefreshQueryIDs forces the tool to re-fetch X's rotating GraphQL query
// ids. It uses a longer ceiling than reads because the tool may probe
// several endpoints. Callers treat it as best-effort.
func (c *Client) RefreshQueryIDs(ctx context.Context) error {
	c.logger.Info("refreshing query ids")

	res, err := c.invoke(ctx, c.cfg.RefreshTimeout, "", "query-ids", "--fresh")
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return &Error{
			Kind:     Classify(res.exitCode, res.stderr),
			Message:  "query id refresh failed",
			Stderr:   res.stderr,
			ExitCode: res.exitCode,
		}
	}
	return nil
}

// Whoami asks the tool to authenticate with whatever cookies it can find,
// including browser auto-detection. A trimmed stdout comes back on success.
func (c *Client) Whoami(ctx context.Context) (string, error) {
	res, err := c.invoke(ctx, c.cfg.WhoamiTimeout, "", "whoami")
	if err != nil {
		return "", err
	}
	if res.exitCode != 0 {
		return "", &Error{
			Kind:     Classify(res.exitCode, res.stderr),
			Message:  "whoami failed",
			Stderr:   res.stderr,
			ExitCode: res.exitCode,
		}
	}
	return strings.TrimSpace(string(res.stdout)), nil
}

// Version probes the tool version. Best-effort: any failure yields
// "unknown" rather than an error.
func (c *Client) Version(ctx context.Context) string {
	res, err := c.invoke(ctx, c.cfg.VersionTimeout, "", "--version")
	if err != nil || res.exitCode != 0 {
		return "unknown"
	}
	v := strings.TrimSpace(string(res.stdout))
	if v == "" {
		return "unknown"
	}
	return v
}
