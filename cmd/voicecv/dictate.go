package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javier/voice-cv/internal/audio"
	"github.com/javier/voice-cv/internal/capture"
	"github.com/javier/voice-cv/internal/client"
	"github.com/javier/voice-cv/internal/config"
	"github.com/javier/voice-cv/internal/observability"
	"github.com/javier/voice-cv/internal/stt"
)

var dictateCmd = &cobra.Command{
	Use:   "dictate",
	Short: "Dictate a résumé end-to-end",
	Long: `Run the full pipeline: check the payment gate, capture dictation from the
microphone, structure the transcript into a résumé and render it. Recording
keeps going through pauses; press Ctrl+C when you are done dictating.

Speech recognition needs either a local Vosk model (--model) or a remote
recognition endpoint (--endpoint, https only).`,
	RunE: runDictate,
}

var (
	dictateAPIURL    string
	dictateEmail     string
	dictateModelPath string
	dictateEndpoint  string
	dictateOutputDir string
	dictatePhoto     string
	dictatePDF       bool
	dictateAPIKey    string
	dictateVerbose   bool
)

func init() {
	dictateCmd.Flags().StringVar(&dictateAPIURL, "api-url", "", "Payment API base URL (defaults to VOICECV_API_URL env var)")
	dictateCmd.Flags().StringVar(&dictateEmail, "email", "", "Email to prefill on the payment page")
	dictateCmd.Flags().StringVarP(&dictateModelPath, "model", "m", "", "Path to a local Vosk model directory")
	dictateCmd.Flags().StringVar(&dictateEndpoint, "endpoint", "", "Remote recognition endpoint (https only)")
	dictateCmd.Flags().StringVarP(&dictateOutputDir, "output-dir", "d", ".", "Directory for rendered files")
	dictateCmd.Flags().StringVar(&dictatePhoto, "photo", "", "Path to a profile photo to embed (max 5MB)")
	dictateCmd.Flags().BoolVar(&dictatePDF, "pdf", false, "Also render a PDF (requires Chrome)")
	dictateCmd.Flags().StringVar(&dictateAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	dictateCmd.Flags().BoolVarP(&dictateVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(dictateCmd)
}

func runDictate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	printer := observability.NewPrinter(os.Stderr)

	cfg := config.FromEnv().MergeWithDefaults(config.DefaultConfig())
	if dictateAPIURL != "" {
		cfg.APIBaseURL = dictateAPIURL
	}
	if dictateModelPath != "" {
		cfg.SpeechModelPath = dictateModelPath
	}
	if dictateEndpoint != "" {
		cfg.SpeechEndpoint = dictateEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	token, err := client.LoadToken()
	if err != nil {
		return err
	}
	api := client.New(cfg.APIBaseURL, token)

	if err := ensureUnlocked(ctx, api, dictateEmail, printer, dictateVerbose); err != nil {
		return err
	}

	transcript, err := captureTranscript(ctx, cfg)
	if err != nil {
		return err
	}
	if dictateVerbose {
		printer.PrintTranscript(transcript)
	}

	converter, closeClient := newConverter(ctx, dictateAPIKey, dictateVerbose)
	defer closeClient()

	resumeData, source, err := converter.Convert(ctx, transcript)
	if err != nil {
		return err
	}
	if dictateVerbose {
		printer.PrintConversionSource(string(source))
		printer.PrintResume(&resumeData)
	}

	// The recording entitlement is spent once structuring has succeeded.
	if err := api.MarkUsed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not mark token as used: %v\n", err)
	}

	if dictatePhoto != "" {
		if resumeData, err = attachPhoto(resumeData, dictatePhoto); err != nil {
			return err
		}
	}

	htmlPath, pdfPath, err := renderDocument(ctx, resumeData, dictateOutputDir, dictatePDF)
	if err != nil {
		return err
	}
	printer.PrintOutputFiles(htmlPath, pdfPath)
	return nil
}

// ensureUnlocked checks the gate and, when the token cannot record, walks the
// user through the checkout cycle.
func ensureUnlocked(ctx context.Context, api *client.Client, email string, printer *observability.Printer, verbose bool) error {
	status, err := api.Status(ctx)
	if err != nil {
		return fmt.Errorf("payment API unreachable: %w", err)
	}
	if status.CanRecord {
		return nil
	}

	checkout, err := api.BeginCheckout(ctx, email)
	if err != nil {
		return fmt.Errorf("could not start checkout: %w", err)
	}

	fmt.Println("A single recording costs one payment. Open this page to pay:")
	fmt.Println()
	fmt.Printf("  %s\n", checkout.URL)
	fmt.Println()
	fmt.Print("After paying, paste the return URL from your browser here: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return fmt.Errorf("no return URL provided")
	}

	sessionID, uid, err := parseReturnURL(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return err
	}

	paid, err := api.CompleteReturn(ctx, sessionID, uid)
	if err != nil {
		return fmt.Errorf("payment verification failed: %w", err)
	}
	if !paid {
		return fmt.Errorf("the payment was not completed")
	}

	if verbose {
		if status, err := api.Status(ctx); err == nil {
			printer.PrintGateStatus(statusToRecord(status))
		}
	}
	return nil
}

// parseReturnURL extracts the session id and token from a checkout return URL
// of the form {clientURL}?success=true&session_id=...&uid=...
func parseReturnURL(raw string) (sessionID, uid string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("no return URL provided")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid return URL: %w", err)
	}

	query := parsed.Query()
	sessionID = query.Get("session_id")
	uid = query.Get("uid")
	if sessionID == "" || uid == "" {
		return "", "", fmt.Errorf("return URL is missing session_id or uid")
	}
	return sessionID, uid, nil
}

// captureTranscript runs one dictation session and returns the transcript.
func captureTranscript(ctx context.Context, cfg config.Config) (string, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return "", err
	}
	defer func() { _ = engine.Close() }()

	capturer, err := audio.NewCapturer(audio.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("%w: %v", capture.ErrDeviceUnavailable, err)
	}

	loop := capture.NewLoop(capturer, engine, capture.Config{})

	// Ctrl+C ends the session instead of killing the process
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		<-interrupt
		loop.Stop()
	}()

	fmt.Println("Listening... speak your career summary. Press Ctrl+C when you are done.")

	runErr := make(chan error, 1)
	go func() { runErr <- loop.Run(ctx) }()

	for event := range loop.Events() {
		switch event.Kind {
		case capture.EventPartial:
			fmt.Printf("\r... %s", event.Text)
		case capture.EventFragment:
			fmt.Printf("\r> %s\n", event.Text)
		case capture.EventSessionEnded:
			fmt.Println()
		}
	}

	if err := <-runErr; err != nil {
		if errors.Is(err, capture.ErrNoSpeech) {
			return "", fmt.Errorf("no speech was captured; nothing to structure")
		}
		return "", err
	}
	return loop.Transcript(), nil
}

// newEngine builds the recognition engine from the configuration: remote
// endpoint when configured, local Vosk model otherwise.
func newEngine(cfg config.Config) (stt.Engine, error) {
	sttCfg := stt.DefaultConfig(cfg.SpeechModelPath)
	if cfg.Language != "" {
		sttCfg.Language = cfg.Language
	}

	if cfg.SpeechEndpoint != "" {
		engine, err := stt.NewRemoteEngine(cfg.SpeechEndpoint)
		if err != nil {
			if errors.Is(err, stt.ErrInsecureEndpoint) {
				return nil, fmt.Errorf("%w: %v", capture.ErrInsecureContext, err)
			}
			return nil, err
		}
		if err := engine.Initialize(sttCfg); err != nil {
			return nil, err
		}
		return engine, nil
	}

	if cfg.SpeechModelPath == "" {
		return nil, fmt.Errorf("speech recognition needs --model or --endpoint")
	}
	engine := stt.NewVoskEngine()
	if err := engine.Initialize(sttCfg); err != nil {
		return nil, err
	}
	return engine, nil
}
