package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"loanlens/internal/underwriting"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a file of extracted documents",
	Long:  "Reads a JSON array of documents in submission order and prints the combined profile, risk assessment, consistency report and decision.",
	RunE:  runAnalyze,
}

var (
	analyzeInputFile string
	analyzeOutput    string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "file", "f", "", "Path to documents JSON file, or - for stdin (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "text", "Output format: text or json")

	if err := analyzeCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeOutput != "text" && analyzeOutput != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", analyzeOutput)
	}

	var (
		raw []byte
		err error
	)
	if analyzeInputFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(analyzeInputFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read documents: %w", err)
	}

	var inputs []underwriting.DocumentInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return fmt.Errorf("documents must be a JSON array: %w", err)
	}

	result, err := underwriting.Analyze(inputs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeOutput == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeReport(out, result)
}

func writeReport(w io.Writer, r *underwriting.AnalysisResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Decision:      %s\n", r.Decision)
	fmt.Fprintf(&b, "Risk score:    %d (%s, approval likelihood %d%%)\n", r.Risk.Score, r.Risk.Level, r.Risk.ApprovalLikelihood)
	if r.Risk.DTIRatio != nil {
		fmt.Fprintf(&b, "DTI ratio:     %.1f%%\n", *r.Risk.DTIRatio)
	}
	fmt.Fprintf(&b, "Consistency:   %d (%s)\n", r.Consistency.Score, r.Consistency.DataQuality)
	fmt.Fprintf(&b, "Documents:     %d, avg confidence %.1f, %d ms\n",
		r.Stats.DocumentsProcessed, r.Stats.AverageConfidence, r.Stats.TotalProcessingTimeMs)
	fmt.Fprintf(&b, "Completeness:  %.0f%%\n", r.Combined.Completeness)

	if len(r.Risk.Factors) > 0 {
		b.WriteString("\nRisk factors:\n")
		for _, f := range r.Risk.Factors {
			fmt.Fprintf(&b, "  -%-3d %s [%s, %s]\n", f.PointsDeducted, f.Description, f.Category, f.Impact)
		}
	}
	if len(r.Consistency.MissingDocuments) > 0 {
		b.WriteString("\nMissing documents:\n")
		for _, d := range r.Consistency.MissingDocuments {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	if len(r.Consistency.Inconsistencies) > 0 {
		b.WriteString("\nInconsistencies:\n")
		for _, s := range r.Consistency.Inconsistencies {
			fmt.Fprintf(&b, "  %s\n", s)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
