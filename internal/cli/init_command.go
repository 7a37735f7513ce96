package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/ctxgen/internal/config"
)

const (
	initUse              = "init [filename]"
	initShortDescription = "create a starter configuration file"
	initLongDescription  = `Write a configuration with one document and one text source.
The format follows the file extension (.yaml, .yml, .json or .toml); the default is context.yaml.
An existing file is never overwritten.`
	initCreatedTemplate = "configuration written to %s\n"
)

func createInitCommand(environment Environment) *cobra.Command {
	return &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, directoryError := resolveWorkingDirectory(environment.WorkingDirectory)
			if directoryError != nil {
				return directoryError
			}
			options := config.InitOptions{WorkingDirectory: workingDirectory}
			if len(arguments) == 1 {
				options.FileName = arguments[0]
			}
			createdPath, initError := config.InitializeConfiguration(options)
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initCreatedTemplate, createdPath)
			return printError
		},
	}
}
