package smoketest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pharmacrm/ai-services/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`PharmaCRM AI Services Smoke Test
================================

Generates synthetic HCP profiles and exercises every engine endpoint of a
running ai-services instance, verifying scoring bounds, the consent gate,
recommendation timing, summary determinism, and the copilot guardrail.

Usage:
  go run cmd/smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8090")
  -key string
        API key for the X-API-Key header (default "dev-key")
  -hcps int
        Number of synthetic HCP profiles to generate (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated profiles (default: generated_profiles_TIMESTAMP.json)
  -log string
        Log file for test output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/smoke/main.go

  # Test with custom parameters
  go run cmd/smoke/main.go -hcps 1000 -workers 16 -url http://localhost:8080

  # Test against a deployed instance
  go run cmd/smoke/main.go -url https://ai.example.com -key "$AISVC_API_KEY"
`)
}
