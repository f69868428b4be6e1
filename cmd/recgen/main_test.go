package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/recgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(args ...string) (config.Config, error) {
	return loadConfig(args, flag.ContinueOnError, io.Discard)
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := parse("-c", "200", "-t", "300", "-d", "3", "-seed", "7", "-xlsx", "-out", "fixtures")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Counterparties)
	assert.Equal(t, 300, cfg.MaxTransactions)
	assert.Equal(t, 3, cfg.Days)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.XLSX)
	assert.False(t, cfg.Schema)
	assert.Equal(t, "fixtures", cfg.OutputDir)
	assert.Equal(t, config.DefaultCurrency, cfg.Currency)
}

func TestLoadConfig_DaysDefaultToOne(t *testing.T) {
	cfg, err := parse("-c", "100", "-t", "100")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Days)
	assert.Equal(t, ".", cfg.OutputDir)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("counterparties: 300\nmax_transactions: 400\ncurrency: GBP\ndays: 2\n"), 0o644))

	cfg, err := parse("-config", path, "-c", "500")
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Counterparties)
	assert.Equal(t, 400, cfg.MaxTransactions)
	assert.Equal(t, "GBP", cfg.Currency)
	// -d was not given, so the file's value stands.
	assert.Equal(t, 2, cfg.Days)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing counts", args: nil, want: config.ErrInvalid},
		{name: "counterparties not multiple of 100", args: []string{"-c", "150", "-t", "100"}, want: config.ErrInvalid},
		{name: "zero days", args: []string{"-c", "100", "-t", "100", "-d", "0"}, want: config.ErrInvalid},
		{name: "bad log level", args: []string{"-c", "100", "-t", "100", "-log-level", "loud"}, want: config.ErrInvalid},
		{name: "help", args: []string{"-h"}, want: flag.ErrHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfig_RejectsUnknownFlagsAndArguments(t *testing.T) {
	_, err := parse("-c", "100", "-t", "100", "-x")
	assert.Error(t, err)

	_, err = parse("-c", "100", "-t", "100", "extra")
	assert.Error(t, err)
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	_, err := parse("-config", filepath.Join(t.TempDir(), "nope.yaml"), "-c", "100", "-t", "100")
	assert.Error(t, err)
}
