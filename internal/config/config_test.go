package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.yml", []byte(content), 0o644))

	return fs
}

func TestLoad(t *testing.T) {
	fs := writeConfig(t, `
listen: ":9090"
log_level: debug
catalog:
  work_dir: /srv/courses
  workers: 2
video_extensions:
  - mp4
  - .MKV
`)

	cfg, err := Load(fs, "/config.yml")
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, LogLevelDebug, cfg.LogLevel)
	require.Equal(t, "/srv/courses", cfg.CatalogConfig.WorkDir)
	require.Equal(t, 2, cfg.CatalogConfig.Workers)

	// Defaults fill whatever the file leaves out.
	require.Equal(t, defaultRedisURL, cfg.RedisURL)
	require.Equal(t, defaultDescFileName, cfg.DescFileName)
	require.Equal(t, defaultSnapshotFileName, cfg.SnapshotFileName)

	fsCfg := cfg.FSAdapterConfig()
	require.Equal(t, []string{".mp4", ".mkv"}, fsCfg.VideoExtensions)
	require.Equal(t, "/srv/courses", fsCfg.WorkDir)
}

func TestLoadMissingWorkDir(t *testing.T) {
	fs := writeConfig(t, `listen: ":9090"`)

	_, err := Load(fs, "/config.yml")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/config.yml")
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envRedisURL, "redis://other:6379/1")
	t.Setenv(envCoursesDir, "/mnt/videos")

	fs := writeConfig(t, `
catalog:
  work_dir: /srv/courses
`)

	cfg, err := Load(fs, "/config.yml")
	require.NoError(t, err)

	require.Equal(t, "redis://other:6379/1", cfg.RedisURL)
	require.Equal(t, "/mnt/videos", cfg.CatalogConfig.WorkDir)
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	require.Equal(t, defaultListen, cfg.Listen)
	require.Equal(t, LogLevelInfo, cfg.LogLevel)
	require.Equal(t, defaultWorkers, cfg.CatalogConfig.Workers)
	require.Equal(t, defaultVideoExtensions, cfg.VideoExtensions)
}
