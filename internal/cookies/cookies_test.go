package cookies

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWhoami struct {
	username string
	err      error
}

func (f fakeWhoami) Whoami(context.Context) (string, error) {
	return f.username, f.err
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "tok")
	t.Setenv("CT0", "csrf")

	c, ok := FromEnv()
	require.True(t, ok)
	require.Equal(t, Cookies{AuthToken: "tok", CT0: "csrf"}, c)
}

func TestFromEnvIncomplete(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "tok")
	t.Setenv("CT0", "")

	_, ok := FromEnv()
	require.False(t, ok)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.json")
	want := Cookies{AuthToken: "tok", CT0: "csrf"}

	require.NoError(t, SaveFile(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, ok, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestLoadFileMissing(t *testing.T) {
	_, ok, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := LoadFile(path)
	require.Error(t, err)
}

func TestDetectViaBird(t *testing.T) {
	c, ok := DetectViaBird(context.Background(), fakeWhoami{username: "someone"}, zap.NewNop())
	require.True(t, ok)
	require.True(t, c.Managed())
	require.True(t, c.Valid())
}

func TestDetectViaBirdFailure(t *testing.T) {
	_, ok := DetectViaBird(context.Background(), fakeWhoami{err: fmt.Errorf("no auth")}, nil)
	require.False(t, ok)
}

func TestBestPrefersEnv(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "env_tok")
	t.Setenv("CT0", "env_csrf")

	c, ok := Best(context.Background(), fakeWhoami{username: "someone"}, nil)
	require.True(t, ok)
	require.Equal(t, "env_tok", c.AuthToken)
}

func TestBestFallsBackToBird(t *testing.T) {
	t.Setenv("AUTH_TOKEN", "")
	t.Setenv("CT0", "")
	t.Setenv("HOME", t.TempDir())

	c, ok := Best(context.Background(), fakeWhoami{username: "someone"}, nil)
	require.True(t, ok)
	require.True(t, c.Managed())
}

func TestEnvFormat(t *testing.T) {
	c := Cookies{AuthToken: "a", CT0: "b"}
	require.Equal(t, "AUTH_TOKEN=a\nCT0=b\n", c.EnvFormat())
}
