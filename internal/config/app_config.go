package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/temirov/ctxgen/internal/tokenizer"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	// ConfigKey names the explicit configuration file setting.
	ConfigKey = "config"
	// OutputRootKey names the output directory setting.
	OutputRootKey = "output_root"
	// WorkersKey names the per-document fetch concurrency setting.
	WorkersKey = "workers"
	// TokensKey enables token counting.
	TokensKey = "tokens"
	// ModelKey selects the tokenizer model.
	ModelKey = "model"
	// CopyKey enables copying the last document to the clipboard.
	CopyKey = "copy"

	// DefaultWorkers bounds concurrent source fetches within one document.
	DefaultWorkers = 4

	errorLoadEnvironmentFileFormat = "load environment file %s: %w"
	errorDecodeSettingsFormat      = "decode application settings: %w"
)

// ApplicationConfiguration holds defaults for command-line flags. Values come
// from CTXGEN_* environment variables, optionally seeded from a .env file.
type ApplicationConfiguration struct {
	ConfigPath string `mapstructure:"config"`
	OutputRoot string `mapstructure:"output_root"`
	Workers    int    `mapstructure:"workers"`
	Tokens     bool   `mapstructure:"tokens"`
	Model      string `mapstructure:"model"`
	Copy       bool   `mapstructure:"copy"`
}

// SettingsOptions controls how application settings are read.
type SettingsOptions struct {
	WorkingDirectory string
	// Reader receives the defaults and environment bindings; a fresh viper
	// instance is used when nil.
	Reader *viper.Viper
}

// LoadApplicationConfiguration loads .env from the working directory and reads
// the CTXGEN_* environment. Variables already present in the process
// environment take precedence over .env entries.
func LoadApplicationConfiguration(options SettingsOptions) (ApplicationConfiguration, error) {
	workingDirectory, directoryError := resolveWorkingDirectory(options.WorkingDirectory)
	if directoryError != nil {
		return ApplicationConfiguration{}, directoryError
	}

	environmentFilePath := filepath.Join(workingDirectory, utils.DotEnvFileName)
	if loadError := godotenv.Load(environmentFilePath); loadError != nil && !errors.Is(loadError, fs.ErrNotExist) {
		return ApplicationConfiguration{}, fmt.Errorf(errorLoadEnvironmentFileFormat, environmentFilePath, loadError)
	}

	reader := options.Reader
	if reader == nil {
		reader = viper.New()
	}
	BindEnvironment(reader)

	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeSettingsFormat, decodeError)
	}
	if configuration.Workers <= 0 {
		configuration.Workers = DefaultWorkers
	}
	return configuration, nil
}

// BindEnvironment registers defaults and CTXGEN_* bindings on reader.
func BindEnvironment(reader *viper.Viper) {
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	defaults := map[string]any{
		ConfigKey:     utils.EmptyString,
		OutputRootKey: utils.EmptyString,
		WorkersKey:    DefaultWorkers,
		TokensKey:     false,
		ModelKey:      tokenizer.DefaultModel,
		CopyKey:       false,
	}
	for key, value := range defaults {
		reader.SetDefault(key, value)
		_ = reader.BindEnv(key)
	}
}
