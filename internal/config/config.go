// Package config holds the run configuration of the generator: built-in
// defaults, an optional YAML file on top of them and command-line overrides on
// top of that.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Defaults matching the reconciliation platform fixtures.
const (
	DefaultBaseDate  = "2010-04-29"
	DefaultCurrency  = "EUR"
	DefaultOutputDir = "."
)

// Config is the run-level configuration. Day d of a run generates the
// business date BaseDate + d days.
type Config struct {
	Counterparties  int    `yaml:"counterparties" validate:"required,mult100"`
	MaxTransactions int    `yaml:"max_transactions" validate:"required,mult100"`
	Days            int    `yaml:"days" validate:"gte=1"`
	BaseDate        string `yaml:"base_date" validate:"required,datetime=2006-01-02"`
	Currency        string `yaml:"currency" validate:"required,len=3,alpha,uppercase"`
	OutputDir       string `yaml:"output_dir" validate:"required"`

	// Seed 0 draws a random seed per run.
	Seed uint64 `yaml:"seed"`

	XLSX        bool   `yaml:"xlsx"`
	Schema      bool   `yaml:"schema"`
	MetricsFile string `yaml:"metrics_file"`
	LogLevel    string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	Render       RenderConfig       `yaml:"render"`
	Distribution DistributionConfig `yaml:"distribution"`
}

// RenderConfig holds the literals stamped into the output files.
type RenderConfig struct {
	BookingSystem      string `yaml:"booking_system" validate:"required,excludesall=0x2C"`
	LegalEntity        string `yaml:"legal_entity" validate:"required,excludesall=0x2C"`
	StatementReference string `yaml:"statement_reference" validate:"required,numeric,max=16"`
}

// DistributionConfig is the bucket table as parallel columns.
type DistributionConfig struct {
	Percentages []int    `yaml:"percentages" validate:"required,min=1,dive,gt=0"`
	Multipliers []string `yaml:"multipliers" validate:"required,min=1,dive,numeric"`
}

// Default returns the reconciliation platform defaults, minus the
// two counts which have no sensible default.
func Default() Config {
	return Config{
		Days:      1,
		BaseDate:  DefaultBaseDate,
		Currency:  DefaultCurrency,
		OutputDir: DefaultOutputDir,
		LogLevel:  "info",
		Render: RenderConfig{
			BookingSystem:      "MUREX",
			LegalEntity:        "BARCLAYS BANK PLC",
			StatementReference: "9400120142730122",
		},
		Distribution: DistributionConfig{
			Percentages: append([]int(nil), distribution.DefaultPercentages...),
			Multipliers: append([]string(nil), distribution.DefaultMultipliers...),
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("LoadFile: read %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("LoadFile: decode %q: %w", path, err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("mult100", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n > 0 && n%100 == 0
	}); err != nil {
		panic(fmt.Sprintf("config: register mult100: %v", err))
	}
	return v
}

// Validate checks field constraints and that the distribution columns form a
// valid table.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("Validate: %s: %w", strings.Join(msgs, "; "), ErrInvalid)
		}
		return fmt.Errorf("Validate: %w", err)
	}
	if _, err := c.Table(); err != nil {
		return fmt.Errorf("Validate: %v: %w", err, ErrInvalid)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "mult100":
		return fmt.Sprintf("%s must be a positive multiple of 100, got %v", field, fe.Value())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date, got %v", field, fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s failed %s (got %v)", field, fe.Tag(), fe.Value())
	}
}

// Table builds the distribution table from the configured columns.
func (c Config) Table() (distribution.Table, error) {
	return distribution.TableFromStrings(c.Distribution.Percentages, c.Distribution.Multipliers)
}

// Date returns the business date of day d (1-based).
func (c Config) Date(day int) (civil.Date, error) {
	base, err := civil.ParseDate(c.BaseDate)
	if err != nil {
		return civil.Date{}, fmt.Errorf("Date: base date %q: %w", c.BaseDate, err)
	}
	return base.AddDays(day), nil
}
