// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/ctxgen/internal/compiler"
	"github.com/temirov/ctxgen/internal/config"
	"github.com/temirov/ctxgen/internal/fetcher"
	"github.com/temirov/ctxgen/internal/filetree"
	"github.com/temirov/ctxgen/internal/gitdiff"
	"github.com/temirov/ctxgen/internal/modifiers"
	"github.com/temirov/ctxgen/internal/services/clipboard"
	"github.com/temirov/ctxgen/internal/tokenizer"
	"github.com/temirov/ctxgen/internal/utils"
)

const (
	configFlagName      = "config"
	outputRootFlagName  = "output-root"
	workersFlagName     = "workers"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	copyFlagName        = "copy"
	verboseFlagName     = "verbose"
	versionFlagName     = "version"
	configFlagShorthand = "c"

	versionTemplate      = "ctxgen version: %s\n"
	rootUse              = "ctxgen"
	rootShortDescription = "compile context documents from files, git diffs and text"
	rootLongDescription  = `ctxgen builds context documents for language-model tooling.
Documents are declared in context.yaml, context.yml, context.json or context.toml
in the working directory, or in the file given with --config. Each document
concatenates its sources (file trees, git diffs, literal text) into one output file.`
	rootUsageExample = `  # Compile every configured document
  ctxgen

  # Use an explicit configuration and write below build/
  ctxgen --config docs/context.yaml --output-root build

  # Report token counts and copy the last document to the clipboard
  ctxgen --tokens --copy`
	generateUse              = "generate"
	generateAlias            = "gen"
	generateShortDescription = "compile configured documents (default command)"

	configFlagDescription     = "configuration file to load instead of the defaults in the working directory"
	outputRootFlagDescription = "directory relative output paths are written to"
	workersFlagDescription    = "maximum sources fetched concurrently per document"
	tokensFlagDescription     = "log token counts of compiled documents"
	modelFlagDescription      = "tokenizer model used for token counting"
	copyFlagDescription       = "copy the last compiled document to the clipboard"
	verboseFlagDescription    = "enable debug logging"
	versionFlagDescription    = "display application version"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorLoggerFormat           = "initialize logger: %w"
	errorGitRunnerFormat        = "initialize git runner: %w"
	errorTokenizerFormat        = "initialize tokenizer: %w"
	errorNoConfigurationFormat  = "%w in %s; run \"ctxgen init\" to create one"

	logFieldCount          = "documents"
	logFieldPath           = "path"
	logFieldTokenizer      = "tokenizer"
	logLoadedDocuments     = "loaded documents"
	logCopiedDocument      = "copied document to clipboard"
	logNothingToCopy       = "no compiled document to copy"
	logTokenizerSelected   = "token counting enabled"
	logCompilationFinished = "compilation finished"
	logFieldFailed         = "failed"
)

// ErrNoConfiguration reports that no configuration file was found.
var ErrNoConfiguration = errors.New("no configuration file found")

// Environment supplies the collaborators commands depend on.
type Environment struct {
	WorkingDirectory string
	Output           io.Writer
	Copier           clipboard.Copier
	// Logger, when set, replaces the logger built from --verbose.
	Logger *zap.Logger
}

type generateOptions struct {
	verbose bool
	tokens  bool
	copy    bool
}

// Execute runs the ctxgen application.
func Execute() error {
	rootCommand := NewRootCommand(Environment{})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(environment Environment) *cobra.Command {
	var showVersion bool
	var options generateOptions
	settingsReader := viper.New()

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			return runGenerate(command.Context(), environment, settingsReader, options)
		},
	}
	if environment.Output != nil {
		rootCommand.SetOut(environment.Output)
	}

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringP(configFlagName, configFlagShorthand, utils.EmptyString, configFlagDescription)
	persistentFlags.String(outputRootFlagName, utils.EmptyString, outputRootFlagDescription)
	persistentFlags.Int(workersFlagName, config.DefaultWorkers, workersFlagDescription)
	persistentFlags.String(modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerToggleFlag(persistentFlags, &options.tokens, tokensFlagName, tokensFlagDescription)
	registerToggleFlag(persistentFlags, &options.copy, copyFlagName, copyFlagDescription)
	registerToggleFlag(persistentFlags, &options.verbose, verboseFlagName, verboseFlagDescription)
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	flagBindings := map[string]string{
		config.ConfigKey:     configFlagName,
		config.OutputRootKey: outputRootFlagName,
		config.WorkersKey:    workersFlagName,
		config.ModelKey:      modelFlagName,
		config.TokensKey:     tokensFlagName,
		config.CopyKey:       copyFlagName,
	}
	for settingKey, flagName := range flagBindings {
		_ = settingsReader.BindPFlag(settingKey, persistentFlags.Lookup(flagName))
	}

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runGenerate(command.Context(), environment, settingsReader, options)
		},
	}

	rootCommand.AddCommand(
		generateCommand,
		createInitCommand(environment),
		createSchemaCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func runGenerate(ctx context.Context, environment Environment, settingsReader *viper.Viper, options generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	workingDirectory, directoryError := resolveWorkingDirectory(environment.WorkingDirectory)
	if directoryError != nil {
		return directoryError
	}

	settings, settingsError := config.LoadApplicationConfiguration(config.SettingsOptions{
		WorkingDirectory: workingDirectory,
		Reader:           settingsReader,
	})
	if settingsError != nil {
		return settingsError
	}

	logger := environment.Logger
	if logger == nil {
		applicationLogger, loggerError := utils.NewApplicationLogger(options.verbose)
		if loggerError != nil {
			return fmt.Errorf(errorLoggerFormat, loggerError)
		}
		defer func() { _ = applicationLogger.Sync() }()
		logger = applicationLogger
	}

	loader, loaderError := config.NewDocumentsLoader(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: settings.ConfigPath,
	})
	if loaderError != nil {
		return loaderError
	}
	if !loader.IsSupported() {
		return fmt.Errorf(errorNoConfigurationFormat, ErrNoConfiguration, workingDirectory)
	}
	registry, loadError := loader.Load()
	if loadError != nil {
		return loadError
	}
	logger.Debug(logLoadedDocuments, zap.Int(logFieldCount, registry.Len()))

	fetchers, fetchersError := newFetcherRegistry(workingDirectory, logger)
	if fetchersError != nil {
		return fetchersError
	}

	var counter tokenizer.Counter
	if settings.Tokens {
		tokenCounter, encodingName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.Model})
		if counterError != nil {
			return fmt.Errorf(errorTokenizerFormat, counterError)
		}
		logger.Debug(logTokenizerSelected, zap.String(logFieldTokenizer, encodingName))
		counter = tokenCounter
	}

	documentCompiler := compiler.NewCompiler(fetchers, compiler.Options{
		OutputRoot:  utils.ResolveAgainstRoot(workingDirectory, settings.OutputRoot),
		Concurrency: settings.Workers,
		Counter:     counter,
		Logger:      logger,
	})
	result := documentCompiler.Compile(ctx, registry)
	logger.Debug(logCompilationFinished, zap.Int(logFieldCount, len(result.Documents)), zap.Int(logFieldFailed, len(result.Failed())))

	if settings.Copy {
		if copyError := copyLastDocument(environment.Copier, result, logger); copyError != nil {
			return copyError
		}
	}
	return result.Err()
}

// newFetcherRegistry wires the file, git diff and text fetchers in dispatch order.
func newFetcherRegistry(workingDirectory string, logger *zap.Logger) (*fetcher.Registry, error) {
	modifierRegistry := modifiers.NewDefaultRegistry(logger)
	gitRunner, runnerError := gitdiff.NewRunner(gitdiff.RunnerOptions{Logger: logger})
	if runnerError != nil {
		return nil, fmt.Errorf(errorGitRunnerFormat, runnerError)
	}
	return fetcher.NewRegistry(
		fetcher.NewFileFetcher(workingDirectory, modifierRegistry, filetree.NewBuilder(), logger),
		fetcher.NewGitDiffFetcher(workingDirectory, gitRunner, modifierRegistry, logger),
		fetcher.NewTextFetcher(),
	), nil
}

func copyLastDocument(copier clipboard.Copier, result compiler.Result, logger *zap.Logger) error {
	last, found := result.Last()
	if !found {
		logger.Warn(logNothingToCopy)
		return nil
	}
	if copier == nil {
		copier = clipboard.NewService()
	}
	if copyError := copier.Copy(last.Content); copyError != nil {
		return copyError
	}
	logger.Info(logCopiedDocument, zap.String(logFieldPath, last.OutputPath))
	return nil
}

func resolveWorkingDirectory(workingDirectory string) (string, error) {
	if workingDirectory != "" {
		return filepath.Clean(workingDirectory), nil
	}
	currentDirectory, directoryError := os.Getwd()
	if directoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, directoryError)
	}
	return currentDirectory, nil
}
