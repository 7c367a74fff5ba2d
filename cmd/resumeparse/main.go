// Package main implements resumeparse, a command line front end for the resume intake pipeline.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/intake"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumeparse",
	Short: "Extract and parse resume documents",
	Long:  "resumeparse extracts plain text from PDF, DOCX and TXT resumes and turns it into a structured, scored record.",
}

var (
	skillsFile string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&skillsFile, "skills", "", "Path to a YAML skill dictionary (overrides SKILLS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log extraction details to stderr")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadPipeline builds the intake pipeline from the environment and the global flags.
func loadPipeline(log *slog.Logger) (*intake.Pipeline, config.Extraction, error) {
	cfg, err := config.LoadExtraction()
	if err != nil {
		return nil, config.Extraction{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if skillsFile != "" {
		cfg.SkillsFile = skillsFile
	}
	pipeline, err := intake.FromConfig(cfg, log)
	if err != nil {
		return nil, config.Extraction{}, err
	}
	return pipeline, cfg, nil
}

// checkSize rejects files over the upload limit. Missing files are left for the extractor to report.
func checkSize(path string, cfg config.Extraction) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.Size() > cfg.MaxUploadBytes() {
		return fmt.Errorf("%s is larger than %dMB", path, cfg.MaxUploadMB)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
