package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// SchemaURL is where the configuration JSON schema is published.
	SchemaURL = "https://raw.githubusercontent.com/temirov/ctxgen/master/json-schema.json"

	schemaUse              = "schema"
	schemaShortDescription = "print the JSON schema URL for editor integration"
	schemaTemplate         = "JSON schema URL: %s\n"
)

func createSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   schemaUse,
		Short: schemaShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, printError := fmt.Fprintf(command.OutOrStdout(), schemaTemplate, SchemaURL)
			return printError
		},
	}
}
