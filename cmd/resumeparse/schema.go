package main

import (
	"fmt"

	"github.com/muhammadolammi/resumeintake/internal/schemas"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the ParsedResume JSON schema",
	Long:  "Prints the JSON schema that parse --validate and the worker check records against.",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), schemas.ParsedResumeSchema())
	return err
}
