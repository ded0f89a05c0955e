package config

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func key(b byte) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat(string(b), 32)))
}

func TestLoad_DefaultsWhenImplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "*", cfg.TargetOrigin)
	assert.Equal(t, DriverMemory, cfg.Persistence.Driver)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "jsonms.yaml", `
port: 9090
target_origin: https://host.example
debounce: 250ms
watch_route: false
default_locale: fr-FR
templates_dir: ./templates
persistence:
  driver: redis
  redis:
    addr: redis:6379
    db: 2
    prefix: "app:"
    ttl: 1h
  mask_keys: ["(?i)password"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://host.example", cfg.TargetOrigin)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce.Std())
	assert.True(t, cfg.WatchLocale, "unset keys keep defaults")
	assert.False(t, cfg.WatchRoute)
	assert.Equal(t, "fr-FR", cfg.DefaultLocale)
	assert.Equal(t, domain.HomeSectionKey, cfg.DefaultSection)
	assert.Equal(t, "./templates", cfg.TemplatesDir)
	assert.Equal(t, RedisConfig{Addr: "redis:6379", DB: 2, Prefix: "app:", TTL: Duration(time.Hour)}, cfg.Persistence.Redis)
	assert.Equal(t, []string{"(?i)password"}, cfg.Persistence.MaskKeys)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "jsonms.json", `{"port": 7000, "debounce": "1s", "persistence": {"driver": "sqlite", "sqlite_path": "x.db"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, time.Second, cfg.Debounce.Std())
	assert.Equal(t, "x.db", cfg.Persistence.SQLite)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad duration", "debounce: soon"},
		{"unknown driver", "persistence:\n  driver: etcd"},
		{"port range", "port: 70000"},
		{"short key", "persistence:\n  encryption_key: " + base64.StdEncoding.EncodeToString([]byte("short"))},
		{"malformed yaml", "port: [1"},
		{"file driver without dir", "persistence:\n  driver: file\n  dir: \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "c.yaml", tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "c.yaml", "persistence:\n  driver: etcd"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_EncryptionKeyFromEnv(t *testing.T) {
	t.Setenv(EnvEncryptionKey, key('k'))
	path := writeConfig(t, "c.yaml", "persistence:\n  fallback_keys: ["+key('o')+"]")

	cfg, err := Load(path)
	require.NoError(t, err)
	active, fallback, err := cfg.Persistence.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)
}

func TestSeed(t *testing.T) {
	cfg := Default()
	cfg.DefaultLocale = "de-DE"
	cfg.DefaultSection = "blog"

	snap := domain.NewSnapshot("s1")
	cfg.Seed(snap)
	assert.Equal(t, "de-DE", snap.Locale)
	assert.Equal(t, "blog", snap.Section.Key)
}

func TestPersistence_OpenMemoryWithMiddleware(t *testing.T) {
	p := Default().Persistence
	p.EncryptionKey = key('k')
	p.MaskKeys = []string{"secret"}

	stores, err := p.Open(context.Background())
	require.NoError(t, err)
	defer stores.Close()
	assert.Nil(t, stores.Locker)

	ctx := context.Background()
	snap := domain.NewSnapshot("s1")
	snap.Content = map[string]any{"secret": "hunter2", "title": "ok"}
	require.NoError(t, stores.Snapshots.Save(ctx, "s1", snap))

	loaded, err := stores.Snapshots.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"secret": "***", "title": "ok"}, loaded.Content)
}

func TestPersistence_OpenSQLite(t *testing.T) {
	p := Persistence{Driver: DriverSQLite, SQLite: filepath.Join(t.TempDir(), "s.db")}

	stores, err := p.Open(context.Background())
	require.NoError(t, err)
	defer stores.Close()

	require.NoError(t, stores.Snapshots.Save(context.Background(), "s1", domain.NewSnapshot("s1")))
	ids, err := stores.Snapshots.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestPersistence_OpenFile(t *testing.T) {
	dir := t.TempDir()
	p := Persistence{Driver: DriverFile, Dir: dir}

	stores, err := p.Open(context.Background())
	require.NoError(t, err)
	defer stores.Close()
	assert.Nil(t, stores.Locker)

	require.NoError(t, stores.Snapshots.Save(context.Background(), "s1", domain.NewSnapshot("s1")))
	assert.FileExists(t, filepath.Join(dir, "s1.json"))
}

func TestPersistence_OpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	p := Persistence{Driver: DriverRedis, Redis: RedisConfig{Addr: mr.Addr(), Prefix: "t:"}}

	stores, err := p.Open(context.Background())
	require.NoError(t, err)
	defer stores.Close()
	require.NotNil(t, stores.Locker)

	require.NoError(t, stores.Snapshots.Save(context.Background(), "s1", domain.NewSnapshot("s1")))
	assert.True(t, mr.Exists("t:s1"))

	unlock, err := stores.Locker.Lock(context.Background(), "s1", time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("t:lock:s1"))
	require.NoError(t, unlock(context.Background()))
}

func TestPersistence_OpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Persistence{Driver: DriverRedis, Redis: RedisConfig{Addr: addr}}.Open(context.Background())
	assert.Error(t, err)
}
