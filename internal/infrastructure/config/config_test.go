package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple lowercase", input: "faq", expected: "faq"},
		{name: "uppercase converted", input: "PetFAQ", expected: "petfaq"},
		{name: "spaces to underscores", input: "pet faq", expected: "pet_faq"},
		{name: "hyphens to underscores", input: "pet-faq", expected: "pet_faq"},
		{name: "special characters removed", input: "pet@faq!", expected: "petfaq"},
		{name: "consecutive underscores collapsed", input: "pet--faq", expected: "pet_faq"},
		{name: "leading trailing underscores trimmed", input: "-pet-faq-", expected: "pet_faq"},
		{name: "empty string returns default", input: "", expected: "default"},
		{name: "cjk only returns default", input: "常見問題", expected: "default"},
		{name: "complex mixed input", input: "Clinic FAQ (2024)", expected: "clinic_faq_2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "petcare_faq", CollectionName("faq"))
	assert.Equal(t, "petcare_vet_faq", CollectionName("Vet FAQ"))
	assert.Equal(t, "petcare_default", CollectionName(""))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "en", cfg.Normalize.Locale)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, "petcare_faq", cfg.Qdrant.Collection)
	assert.Equal(t, 3, cfg.FAQ.Limit)
	require.NoError(t, cfg.Validate())
}

func TestConfigDir(t *testing.T) {
	assert.Equal(t, "/home/user/project/.petcare", ConfigDir("/home/user/project"))
}

func TestConfigFilePath(t *testing.T) {
	assert.Equal(t, "/home/user/project/.petcare/config.yaml", ConfigFilePath("/home/user/project"))
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "/srv/app/.petcare/petcare.db", cfg.SQLitePath("/srv/app"))

	cfg.SQLite.Path = "/var/lib/petcare.db"
	assert.Equal(t, "/var/lib/petcare.db", cfg.SQLitePath("/srv/app"))

	cfg.SQLite.Path = ""
	assert.Equal(t, "/srv/app/.petcare/petcare.db", cfg.SQLitePath("/srv/app"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "petcare init")
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := "normalize:\n  locale: zh-TW\nqdrant:\n  port: 7000\n"
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "zh-TW", cfg.Normalize.Locale)
	assert.Equal(t, 7000, cfg.Qdrant.Port)
	assert.Equal(t, "localhost", cfg.Qdrant.Host, "unset keys keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "bad yaml", content: "log: [", errMsg: "parsing config file"},
		{name: "bad locale", content: "normalize:\n  locale: fr\n", errMsg: "normalize.locale"},
		{name: "bad log format", content: "log:\n  format: xml\n", errMsg: "invalid log format"},
		{name: "bad min score", content: "faq:\n  min_score: 2\n", errMsg: "min_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
			require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(tt.content), 0644))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("QDRANT_API_KEY", "qd-test")
	t.Setenv("PETCARE_LOG_LEVEL", "debug")

	cfg, err := LoadOrDefault(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.Embedder.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Embedder.BaseURL)
	assert.Equal(t, "qd-test", cfg.Qdrant.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FileKeyWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte("llm:\n  api_key: sk-file\n"), 0644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "sk-env", cfg.Embedder.APIKey)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(DefaultConfigDir, DefaultDatabaseFile), cfg.SQLite.Path)
	assert.Equal(t, "petcare_faq", cfg.Qdrant.Collection)

	err = WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Normalize.Locale = "zh-TW"

	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "zh-TW", loaded.Normalize.Locale)
}
