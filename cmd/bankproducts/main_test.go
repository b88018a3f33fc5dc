package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for _, sub := range []string{"up", "down", "version"} {
		_, err := execute(t, "--env", "", "migrate", sub)
		require.Error(t, err, sub)
		assert.Contains(t, err.Error(), "no database dsn")
	}
}

func TestServeRejectsMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--env", "", "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestServeRejectsArguments(t *testing.T) {
	_, err := execute(t, "--env", "", "serve", "extra")
	require.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BANKPRODUCTS_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Setenv("BANKPRODUCTS_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("BANKPRODUCTS_TEST_VALUE"))

	require.NoError(t, loadEnvFile(path, true))
	assert.Equal(t, "from-dotenv", os.Getenv("BANKPRODUCTS_TEST_VALUE"))

	missing := filepath.Join(dir, "missing.env")
	assert.NoError(t, loadEnvFile(missing, false), "missing default file is ignored")
	assert.Error(t, loadEnvFile(missing, true), "missing explicit file is an error")
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
