package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/muhammadolammi/resumeintake/internal/resumeparser"
	"github.com/muhammadolammi/resumeintake/internal/schemas"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume into a structured record",
	Long:  "Extracts text from a resume document (or reads plain text from stdin) and writes the parsed, scored record as JSON.",
	RunE:  runParse,
}

var (
	parseFile     string
	parseStdin    bool
	parseOutput   string
	parseValidate bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "Path to the resume document")
	parseCmd.Flags().BoolVar(&parseStdin, "stdin", false, "Read plain resume text from stdin instead of a file")
	parseCmd.Flags().StringVarP(&parseOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Validate the record against the ParsedResume schema")

	parseCmd.MarkFlagsMutuallyExclusive("file", "stdin")
	parseCmd.MarkFlagsOneRequired("file", "stdin")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	pipeline, cfg, err := loadPipeline(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	var parsed resumeparser.ParsedResume
	if parseStdin {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		parsed = pipeline.Parser.Parse(string(text))
	} else {
		if err := checkSize(parseFile, cfg); err != nil {
			return err
		}
		analysis := pipeline.AnalyzeFile(cmd.Context(), parseFile)
		if analysis.Resume == nil {
			return fmt.Errorf("extraction failed: %s: %s", analysis.ErrorKind, analysis.Error)
		}
		parsed = *analysis.Resume
	}

	if parseValidate {
		if err := schemas.ValidateParsedResume(parsed); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("parsed resume failed schema validation: %w", err)
			}
			return fmt.Errorf("failed to validate parsed resume: %w", err)
		}
	}

	if parseOutput != "" {
		err = writeJSONFile(parseOutput, parsed)
	} else {
		err = writeJSON(cmd.OutOrStdout(), parsed)
	}
	if err != nil {
		return err
	}

	if !parsed.OK() {
		return fmt.Errorf("parsing failed: %s", parsed.ErrorMessage)
	}
	return nil
}
