package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikimatter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
publish_key: confluence
templates:
  frontmatter: ./tpl/frontmatter.tmpl
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "confluence", cfg.PublishKey)
	require.Equal(t, "./tpl/frontmatter.tmpl", cfg.Templates.Frontmatter)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "content", cfg.ContentDir)
	require.Equal(t, "_index.md", cfg.IndexName)
	require.Equal(t, []string{".md"}, cfg.Extensions)
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("WIKIMATTER_TEST_KEY", "docs")
	path := filepath.Join(t.TempDir(), "wikimatter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content_dir: ${WIKIMATTER_TEST_KEY}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.ContentDir)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikimatter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content_dir: [\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"index with slash", func(c *Config) { c.IndexName = "a/_index.md" }, "index_name"},
		{"extension without dot", func(c *Config) { c.Extensions = []string{"md"} }, "extension"},
		{"backup suffix", func(c *Config) { c.BackupSuffix = "bak" }, "backup_suffix"},
		{"same suffixes", func(c *Config) { c.OverlaySuffix = c.BackupSuffix }, "must differ"},
		{"shallow bound", func(c *Config) { c.MaxDepth = 3 }, "max_depth"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.msg)
		})
	}
	require.NoError(t, Default().Validate())
}

func TestHasExtension(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.HasExtension("/c/a.md"))
	require.False(t, cfg.HasExtension("/c/a.md.bak"))
	require.False(t, cfg.HasExtension("/c/a.md.diff"))
}

func TestNormalizeLogging(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	require.Equal(t, LogFormatText, NormalizeLogFormat(""))

	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	require.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	logger.Warn("hello")
	require.True(t, strings.HasPrefix(buf.String(), "{"))

	verbose := LoggingConfig{Level: "error"}.NewLogger(&buf, true)
	require.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
}
