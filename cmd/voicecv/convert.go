package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javier/voice-cv/internal/convert"
	"github.com/javier/voice-cv/internal/llm"
	"github.com/javier/voice-cv/internal/observability"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Structure a transcript file into résumé JSON",
	Long: `Read a dictation transcript from a text file and structure it into résumé
JSON. Uses the Gemini model when an API key is available and falls back to
local keyword extraction otherwise.`,
	RunE: runConvert,
}

var (
	convertInput   string
	convertOutput  string
	convertAPIKey  string
	convertVerbose bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Path to transcript text file (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Path for the résumé JSON (default stdout)")
	convertCmd.Flags().StringVar(&convertAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = convertCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	transcript, err := os.ReadFile(convertInput)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	converter, closeClient := newConverter(ctx, convertAPIKey, convertVerbose)
	defer closeClient()

	resume, source, err := converter.Convert(ctx, string(transcript))
	if err != nil {
		return err
	}

	if convertVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintConversionSource(string(source))
		printer.PrintResume(&resume)
	}

	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode résumé: %w", err)
	}
	data = append(data, '\n')

	if convertOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(convertOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write résumé: %w", err)
	}
	return nil
}

// newConverter builds the structuring converter, with the Gemini client when
// a key is available. The returned func releases the client.
func newConverter(ctx context.Context, apiKey string, verbose bool) (*convert.Converter, func()) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		if verbose {
			fmt.Fprintln(os.Stderr, "GEMINI_API_KEY not set; using local extraction")
		}
		return convert.NewConverter(nil), func() {}
	}

	client, err := llm.NewGeminiClient(ctx, apiKey, llm.DefaultModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gemini client unavailable (%v); using local extraction\n", err)
		return convert.NewConverter(nil), func() {}
	}
	return convert.NewConverter(client), func() { _ = client.Close() }
}
