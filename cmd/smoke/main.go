package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/pharmacrm/ai-services/internal/smoketest"
)

// Default configuration constants.
const (
	defaultNumHCPs     = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8090", "Base URL of the service")
		apiKey     = flag.String("key", "dev-key", "API key for the X-API-Key header")
		numHCPs    = flag.Int("hcps", defaultNumHCPs, "Number of synthetic HCP profiles to generate")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated profiles (default: generated_profiles_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for test output (default: smoke_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	// Setup logging
	if err := smoketest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &smoketest.Config{
		BaseURL:    *baseURL,
		APIKey:     *apiKey,
		NumHCPs:    *numHCPs,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		return
	}
}
