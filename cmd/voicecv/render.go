package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javier/voice-cv/internal/observability"
	"github.com/javier/voice-cv/internal/rendering"
	"github.com/javier/voice-cv/internal/resume"
	"github.com/javier/voice-cv/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render résumé JSON to a printable document",
	Long: `Render a structured résumé JSON file into a self-contained HTML document,
and optionally a PDF. PDF rendering requires Chrome/Chromium to be installed.`,
	RunE: runRender,
}

var (
	renderInput     string
	renderOutputDir string
	renderPhoto     string
	renderPDF       bool
	renderVerbose   bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Path to résumé JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutputDir, "output-dir", "d", ".", "Directory for rendered files")
	renderCmd.Flags().StringVar(&renderPhoto, "photo", "", "Path to a profile photo to embed (max 5MB)")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Also render a PDF (requires Chrome)")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = renderCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(renderInput)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	var parsed types.Resume
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse résumé JSON: %w", err)
	}

	doc := resume.NewDocument(parsed)
	if renderPhoto != "" {
		photo, err := os.ReadFile(renderPhoto)
		if err != nil {
			return fmt.Errorf("failed to read photo: %w", err)
		}
		if err := doc.AttachPhoto(photo); err != nil {
			return err
		}
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	htmlPath, pdfPath, err := renderDocument(context.Background(), doc.Data(), renderOutputDir, renderPDF)
	if err != nil {
		return err
	}

	if renderVerbose {
		observability.NewPrinter(os.Stderr).PrintOutputFiles(htmlPath, pdfPath)
	} else {
		fmt.Println(htmlPath)
		if pdfPath != "" {
			fmt.Println(pdfPath)
		}
	}
	return nil
}

// renderDocument writes the HTML document, and optionally the PDF, into dir.
func renderDocument(ctx context.Context, data types.Resume, dir string, withPDF bool) (htmlPath, pdfPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output dir: %w", err)
	}

	html, err := rendering.RenderHTML(data)
	if err != nil {
		return "", "", err
	}
	htmlPath = filepath.Join(dir, rendering.DocumentFilename(data, "html"))
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write HTML: %w", err)
	}

	if withPDF {
		pdf, err := rendering.RenderPDF(ctx, data)
		if err != nil {
			return "", "", err
		}
		pdfPath = filepath.Join(dir, rendering.DocumentFilename(data, "pdf"))
		if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
			return "", "", fmt.Errorf("failed to write PDF: %w", err)
		}
	}

	return htmlPath, pdfPath, nil
}
