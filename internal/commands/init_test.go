package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnkit/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := runTxnkit(t, "init", dir, "--no-git")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized txnkit workspace at "+dir)

	for _, d := range []string{"data", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	mapping, err := os.ReadFile(filepath.Join(dir, "merchant_category_mapping.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Merchant,Category\n", string(mapping))

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".env")

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err))
}

func TestInit_Config(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := runTxnkit(t, "init", dir, "--no-git")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_KeepsExistingMapping(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "merchant_category_mapping.csv")
	require.NoError(t, os.WriteFile(path, []byte("Merchant,Category\nCostco,Groceries\n"), 0o644))

	_, err := runTxnkit(t, "init", dir, "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Costco")
}

func TestInit_RefusesExistingWorkspace(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := runTxnkit(t, "init", dir, "--no-git")
	require.NoError(t, err)
	_, err = runTxnkit(t, "init", dir, "--no-git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	isolate(t)
	dir := t.TempDir()

	out, err := runTxnkit(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized txnkit workspace at "+dir+" (")

	info, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
