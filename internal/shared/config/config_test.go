package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWith(t *testing.T, args ...string) Settings {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	c := New()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	c.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	require.NoError(t, c.Load())
	return c.Settings()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSettings_Defaults(t *testing.T) {
	s := loadWith(t)
	assert.Equal(t, "", s.URL)
	assert.Equal(t, DefaultPageSize, s.PageSize)
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, slog.LevelWarn, s.Level())
	assert.Equal(t, "journal.db", filepath.Base(s.Journal))
}

func TestSettings_Precedence(t *testing.T) {
	path := writeConfig(t, "url: https://file.example.com\ntoken: file-token\npageSize: 25\ntimeout: 5s\n")

	t.Run("file", func(t *testing.T) {
		s := loadWith(t, "--config", path)
		assert.Equal(t, "https://file.example.com", s.URL)
		assert.Equal(t, "file-token", s.Token)
		assert.Equal(t, 25, s.PageSize)
		assert.Equal(t, 5*time.Second, s.Timeout)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("HSADMIN_URL", "https://env.example.com")
		t.Setenv("HSADMIN_PAGE_SIZE", "50")
		s := loadWith(t, "--config", path)
		assert.Equal(t, "https://env.example.com", s.URL)
		assert.Equal(t, "file-token", s.Token)
		assert.Equal(t, 50, s.PageSize)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("HSADMIN_URL", "https://env.example.com")
		s := loadWith(t, "--config", path, "--url", "https://flag.example.com", "--log-level", "debug")
		assert.Equal(t, "https://flag.example.com", s.URL)
		assert.Equal(t, slog.LevelDebug, s.Level())
	})
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c := New()
	cmd := &cobra.Command{Use: "test"}
	c.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))

	assert.Error(t, c.Load())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr string
	}{
		{name: "complete", s: Settings{URL: "https://api.example.com", Token: "t"}},
		{name: "missing url", s: Settings{Token: "t"}, wantErr: "backend URL is required"},
		{name: "missing token", s: Settings{URL: "https://api.example.com"}, wantErr: "API token is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

type scriptedAsker struct {
	lines  []string
	secret string
	err    error
}

func (a *scriptedAsker) Line(label, current string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	v := a.lines[0]
	a.lines = a.lines[1:]
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *scriptedAsker) Secret(label string, hasCurrent bool) (string, error) {
	return a.secret, nil
}

func TestConfigureInteractive(t *testing.T) {
	current := Settings{URL: "https://old.example.com", Token: "old-token", PageSize: 10}

	req, err := ConfigureInteractive(&scriptedAsker{lines: []string{"", "20"}}, current)
	require.NoError(t, err)
	assert.Equal(t, "https://old.example.com", req.URL)
	assert.Equal(t, "old-token", req.Token, "empty secret keeps the stored token")
	assert.Equal(t, 20, req.PageSize)

	req, err = ConfigureInteractive(&scriptedAsker{lines: []string{"https://new.example.com", ""}, secret: "new-token"}, current)
	require.NoError(t, err)
	assert.Equal(t, "new-token", req.Token)
	assert.Equal(t, 10, req.PageSize)

	_, err = ConfigureInteractive(&scriptedAsker{lines: []string{"", "zero"}}, current)
	assert.ErrorContains(t, err, "page size")

	_, err = ConfigureInteractive(&scriptedAsker{lines: []string{"", ""}}, Settings{PageSize: 10})
	assert.ErrorContains(t, err, "URL is required")

	_, err = ConfigureInteractive(&scriptedAsker{err: errors.New("eof")}, current)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := New()
	written, err := c.Save(ConfigureRequest{URL: "https://api.example.com", Token: "abcdefghijklmnop", PageSize: 15}, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s := loadWith(t, "--config", path)
	assert.Equal(t, "https://api.example.com", s.URL)
	assert.Equal(t, "abcdefghijklmnop", s.Token)
	assert.Equal(t, 15, s.PageSize)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "abcd...mnop", MaskToken("abcdefghijklmnop"))
	assert.Equal(t, "*****", MaskToken("short"))
}
