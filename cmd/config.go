package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/etnz/adjust"
	"github.com/etnz/adjust/reconcile"
	"github.com/etnz/adjust/table"
	"github.com/spf13/viper"
)

// DefaultConfigFile is the configuration file read when -config is not set.
const DefaultConfigFile = "adjust.yaml"

// EnvPrefix prefixes the environment variables overriding the configuration.
const EnvPrefix = "ADJUST"

// Config is the configuration of the application.
type Config struct {
	Precision      int           `mapstructure:"precision"`
	GuardDigits    int           `mapstructure:"guard_digits"`
	WorkingDigits  int           `mapstructure:"working_digits"`
	MaxBumps       int           `mapstructure:"max_bumps"`
	Workers        int           `mapstructure:"workers"`
	HeaderScanRows int           `mapstructure:"header_scan_rows"`
	Columns        ColumnsConfig `mapstructure:"columns"`
	Files          FilesConfig   `mapstructure:"files"`
	Logging        LoggingConfig `mapstructure:"logging"`
	// Cover adds the instructions sheet to the workbooks.
	Cover bool `mapstructure:"cover"`
}

// ColumnsConfig replaces the default column names.
type ColumnsConfig struct {
	Code     []string `mapstructure:"code"`
	Quantity []string `mapstructure:"quantity"`
	Target   []string `mapstructure:"target"`
}

// FilesConfig holds the default files of the reconcile command.
type FilesConfig struct {
	Base      string `mapstructure:"base"`
	Secondary string `mapstructure:"secondary"`
	Target    string `mapstructure:"target"`
	Output    string `mapstructure:"output"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	d := adjust.DefaultConfig()
	v.SetDefault("precision", d.Precision)
	v.SetDefault("guard_digits", d.GuardDigits)
	v.SetDefault("working_digits", d.WorkingDigits)
	v.SetDefault("max_bumps", d.MaxBumps)
	v.SetDefault("workers", 0)
	v.SetDefault("header_scan_rows", table.DefaultHeaderScanRows)
	v.SetDefault("columns.code", []string{})
	v.SetDefault("columns.quantity", []string{})
	v.SetDefault("columns.target", []string{})
	v.SetDefault("files.base", "")
	v.SetDefault("files.secondary", "")
	v.SetDefault("files.target", "")
	v.SetDefault("files.output", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("cover", true)
}

// LoadConfig reads the configuration file at path, then the ADJUST_*
// environment variables. A missing file is an error only if required.
func LoadConfig(path string, required bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
		case !required && (errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)):
		default:
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if _, err := conf.Solver(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Solver returns the validated solver configuration.
func (c *Config) Solver() (adjust.Config, error) {
	sc := adjust.Config{MaxBumps: c.MaxBumps}
	var err error
	if sc.Precision, err = int32Of("precision", c.Precision); err != nil {
		return sc, err
	}
	if sc.GuardDigits, err = int32Of("guard_digits", c.GuardDigits); err != nil {
		return sc, err
	}
	if sc.WorkingDigits, err = int32Of("working_digits", c.WorkingDigits); err != nil {
		return sc, err
	}
	return sc, sc.Validate()
}

// Sources returns the files and columns of a reconciliation.
func (c *Config) Sources() reconcile.Sources {
	return reconcile.Sources{
		Base:           c.Files.Base,
		Secondary:      c.Files.Secondary,
		Target:         c.Files.Target,
		Codes:          c.Columns.Code,
		BaseQuantity:   c.Columns.Quantity,
		TargetQuantity: c.Columns.Target,
		HeaderScanRows: c.HeaderScanRows,
	}
}
