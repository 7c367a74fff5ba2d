package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from a resume document",
	Long:  "Reads a PDF, DOCX or TXT file and prints the recovered text, or the full extraction record with --json.",
	RunE:  runExtract,
}

var (
	extractFile string
	extractJSON bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the resume document (required)")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the document record as JSON")

	if err := extractCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	pipeline, cfg, err := loadPipeline(newLogger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	if err := checkSize(extractFile, cfg); err != nil {
		return err
	}

	res := pipeline.Extractor.ExtractFile(cmd.Context(), extractFile)
	if !res.OK() {
		return fmt.Errorf("extraction failed: %w", res.Err())
	}
	if extractJSON {
		return writeJSON(cmd.OutOrStdout(), res.Document)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text())
	return err
}
