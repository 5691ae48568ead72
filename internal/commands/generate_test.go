package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnkit/internal/config"
	"github.com/cleared-dev/txnkit/internal/dataset"
	"github.com/cleared-dev/txnkit/internal/model"
)

func TestGenerate_DefaultDatasets(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := runTxnkit(t, "generate", "--out-dir", dir, "--seed", "42", "--count", "10")
	require.NoError(t, err)

	for _, name := range config.Default().Generate.Datasets {
		path := filepath.Join(dir, name)
		assert.Contains(t, out, "Exported 10 transactions to "+path)

		txns, err := dataset.Load(path)
		require.NoError(t, err, name)
		assert.Len(t, txns, 10, name)
		assert.Equal(t, "2025-08-01", txns[0].Date.Format("2006-01-02"), name)
		assert.Equal(t, model.CAD, txns[0].Currency, name)
	}
	assert.Contains(t, out, "Seed used: 42")
	assert.Contains(t, out, "Sample transactions from "+filepath.Join(dir, "mock_trans_1.json"))
	assert.Equal(t, 5, strings.Count(out, "| Balance:"))
}

func TestGenerate_SameSeedSameBytes(t *testing.T) {
	isolate(t)
	dirA, dirB := t.TempDir(), t.TempDir()

	_, err := runTxnkit(t, "generate", "set.csv", "--out-dir", dirA, "--seed", "7")
	require.NoError(t, err)
	_, err = runTxnkit(t, "generate", "set.csv", "--out-dir", dirB, "--seed", "7")
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(dirA, "set.csv"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "set.csv"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), dataset.Header+"\n"))
}

func TestGenerate_EmptyCSVNotWritten(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, err := runTxnkit(t, "generate", "empty.csv", "empty.json", "--out-dir", dir, "--count", "0", "--seed", "1")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "empty.csv"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(dir, "empty.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	assert.Contains(t, out, "Exported 0 transactions to "+filepath.Join(dir, "empty.json"))
	assert.NotContains(t, out, "empty.csv")
}

func TestGenerate_InvalidInput(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"currency", []string{"--currency", "EUR"}, "unsupported currency"},
		{"balance", []string{"--initial-balance", "lots"}, "initial balance"},
		{"date", []string{"--start-date", "08/01/2025"}, "start date"},
		{"extension", []string{"out.txt"}, "unsupported dataset extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "--out-dir", dir}, tt.args...)
			_, err := runTxnkit(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildGenerateParams(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	gc := config.Default().Generate
	gc.Seed = 0
	gc.StartDate = ""
	gc.InitialBalance = "100.005"

	p, err := buildGenerateParams(gc, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(now.UnixNano()), p.Seed)
	assert.True(t, p.Options.StartDate.IsZero())
	assert.Equal(t, "100.01", p.Options.InitialBalance.StringFixed(2))
	assert.Equal(t, model.CAD, p.Options.Currency)
	assert.Equal(t, 75, p.Options.Count)
}
