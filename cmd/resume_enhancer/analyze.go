package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kartik4138/Resume-enhancer/internal/config"
	"github.com/Kartik4138/Resume-enhancer/internal/ingestion"
	"github.com/Kartik4138/Resume-enhancer/internal/jobs"
	"github.com/Kartik4138/Resume-enhancer/internal/observability"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
)

// Output formats of the analyze commands
const (
	formatJSON = "json"
	formatText = "text"
)

var (
	analyzeOutFile string
	analyzeFormat  string
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume <file.pdf|file.docx>",
	Short: "Parse a resume file offline and print the parsed document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOutput(cmd, func(ctx context.Context, skills config.SkillsConfig, w io.Writer) error {
			return analyzeResume(ctx, skills, args[0], analyzeFormat, w)
		})
	},
}

var analyzeJDCmd = &cobra.Command{
	Use:   "analyze-jd <file|->",
	Short: "Extract job description skills offline and print them as JSON",
	Long:  "Read job description text or HTML from a file, or from stdin when the argument is \"-\".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOutput(cmd, func(_ context.Context, skills config.SkillsConfig, w io.Writer) error {
			return analyzeJD(skills, args[0], analyzeFormat, cmd.InOrStdin(), w)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{analyzeResumeCmd, analyzeJDCmd} {
		c.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Write output to this file instead of stdout")
		c.Flags().StringVar(&analyzeFormat, "format", "json", "Output format: json or text")
		rootCmd.AddCommand(c)
	}
}

// withOutput loads the skill settings and runs fn against stdout or --out.
func withOutput(cmd *cobra.Command, fn func(context.Context, config.SkillsConfig, io.Writer) error) error {
	if analyzeFormat != formatJSON && analyzeFormat != formatText {
		return fmt.Errorf("unknown format %q (want json or text)", analyzeFormat)
	}
	cfg, _, logCloser, err := loadConfig()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if analyzeOutFile == "" {
		return fn(cmd.Context(), cfg.Skills, cmd.OutOrStdout())
	}
	f, err := os.Create(analyzeOutFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(cmd.Context(), cfg.Skills, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func analyzeResume(ctx context.Context, skills config.SkillsConfig, path, format string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	raw, err := ingestion.ExtractText(filepath.Base(path), data)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(skills, nil)
	if err != nil {
		return err
	}
	parsed, err := resumes.NewParser(nil, nil, pipeline, slog.Default()).Analyze(ctx, raw)
	if err != nil {
		return err
	}
	if format == formatText {
		observability.NewPrinter(w).PrintParsedResume(parsed)
		return nil
	}
	return writeJSON(w, parsed)
}

func analyzeJD(skills config.SkillsConfig, path, format string, stdin io.Reader, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return jobs.ErrEmptyDescription
	}

	pipeline, err := newPipeline(skills, nil)
	if err != nil {
		return err
	}
	analysis := jobs.Extract(pipeline, ingestion.CleanJobText(string(data)))
	if format == formatText {
		observability.NewPrinter(w).PrintJDAnalysis(&analysis)
		return nil
	}
	return writeJSON(w, analysis)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
