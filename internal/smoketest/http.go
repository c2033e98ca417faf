package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout and API key handling.
type HTTPClient struct {
	client *http.Client
	apiKey string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration, apiKey string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		apiKey: apiKey,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body and the API key header.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	return c.client.Do(req)
}

// postDecoded posts a body and decodes the JSON response into out.
func postDecoded(ctx context.Context, client *HTTPClient, url string, body, out any) error {
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// profileResult carries the engine responses for one profile.
type profileResult struct {
	profile    Profile
	engagement scoreResponse
	propensity scoreResponse
	action     nbaResponse
}

// submitProfiles runs scoring and recommendation requests for every profile
// using a worker pool, collecting results for invariant verification.
func submitProfiles(ctx context.Context, config *Config, profiles []Profile, stats *Stats) ([]profileResult, error) {
	log.Printf("submitting %d profiles with %d workers", len(profiles), config.Workers)

	client := newHTTPClient(config.Timeout, config.APIKey)

	results := make([]profileResult, len(profiles))
	var (
		submitted  int64
		successful int64
		failed     int64
	)

	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := submitSingleProfile(ctx, client, config.BaseURL, profiles[index])
					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("profile %s failed: %v", profiles[index].Scoring.HCPID, err)
						}
						continue
					}
					results[index] = result
					atomic.AddInt64(&successful, 1)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range profiles {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("submission completed: %d successful, %d failed",
		stats.RequestsSuccessful, stats.RequestsFailed)

	return results, nil
}

// submitSingleProfile runs the three engine calls for one profile.
func submitSingleProfile(ctx context.Context, client *HTTPClient, baseURL string, p Profile) (profileResult, error) {
	result := profileResult{profile: p}

	if err := postDecoded(ctx, client, baseURL+"/api/v1/scoring/engagement", p.Scoring, &result.engagement); err != nil {
		return result, fmt.Errorf("engagement scoring: %w", err)
	}
	if err := postDecoded(ctx, client, baseURL+"/api/v1/scoring/prescription-propensity", p.Scoring, &result.propensity); err != nil {
		return result, fmt.Errorf("propensity scoring: %w", err)
	}
	if err := postDecoded(ctx, client, baseURL+"/api/v1/nba/recommend", p.NBA, &result.action); err != nil {
		return result, fmt.Errorf("recommendation: %w", err)
	}

	return result, nil
}
