package config

import (
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Config {
	cfg := Default()
	cfg.Counterparties = 100
	cfg.MaxTransactions = 100
	return cfg
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_NeedsCounts(t *testing.T) {
	err := Default().Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "counterparties is required")
	assert.Contains(t, err.Error(), "max_transactions is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "counterparties not multiple of 100",
			mutate:  func(c *Config) { c.Counterparties = 150 },
			wantErr: "counterparties must be a positive multiple of 100",
		},
		{
			name:    "negative transactions",
			mutate:  func(c *Config) { c.MaxTransactions = -100 },
			wantErr: "max_transactions must be a positive multiple of 100",
		},
		{
			name:    "zero days",
			mutate:  func(c *Config) { c.Days = 0 },
			wantErr: "days failed gte=1",
		},
		{
			name:    "bad base date",
			mutate:  func(c *Config) { c.BaseDate = "29/04/2010" },
			wantErr: "base_date must be a YYYY-MM-DD date",
		},
		{
			name:    "lowercase currency",
			mutate:  func(c *Config) { c.Currency = "eur" },
			wantErr: "currency failed uppercase",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level failed oneof",
		},
		{
			name:    "comma in booking system",
			mutate:  func(c *Config) { c.Render.BookingSystem = "MU,REX" },
			wantErr: "render.booking_system",
		},
		{
			name:    "percentages not summing to 100",
			mutate:  func(c *Config) { c.Distribution.Percentages[7] = 39 },
			wantErr: "invalid distribution table",
		},
		{
			name:    "non numeric multiplier",
			mutate:  func(c *Config) { c.Distribution.Multipliers[0] = "all" },
			wantErr: "distribution.multipliers[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := writeYAML(t, `
counterparties: 300
max_transactions: 200
currency: GBP
render:
  booking_system: SUMMIT
distribution:
  percentages: [50, 50]
  multipliers: ["1", "0.5"]
`)
	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, 300, cfg.Counterparties)
	assert.Equal(t, 200, cfg.MaxTransactions)
	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, "SUMMIT", cfg.Render.BookingSystem)
	assert.Equal(t, "BARCLAYS BANK PLC", cfg.Render.LegalEntity)
	assert.Equal(t, DefaultBaseDate, cfg.BaseDate)
	assert.Equal(t, 1, cfg.Days)
	require.NoError(t, cfg.Validate())

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestLoadFile_EmptyFileKeepsDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, LoadFile(writeYAML(t, ""), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	err := LoadFile(writeYAML(t, "counterpart: 100\n"), &cfg)
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := Default()
	err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	cfg := valid()

	d1, err := cfg.Date(1)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2010, Month: 4, Day: 30}, d1)

	d3, err := cfg.Date(3)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2010, Month: 5, Day: 2}, d3)
}
