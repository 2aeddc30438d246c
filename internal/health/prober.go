// Package health probes the distinct base URLs across all stored
// configurations and classifies each as reachable or unhealthy.
package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"ccswitch/config/models"
	"ccswitch/internal/utils"
)

// DefaultTimeout is the per-attempt timeout.
const DefaultTimeout = 30 * time.Second

// Status classifies one probed base URL.
type Status string

const (
	StatusReachable Status = "reachable"
	StatusUnhealthy Status = "unhealthy"
)

// Target is one distinct base URL with the configuration names sharing it.
type Target struct {
	BaseURL string
	Names   []string
	Token   string
}

// Result records the outcome of a probe sequence against one target.
type Result struct {
	Target     Target
	Status     Status
	Cause      string        // empty when reachable
	StatusCode int           // 0 when the classifying attempt failed at transport level
	Endpoint   string        // suffix of the classifying attempt
	Latency    time.Duration // wall clock of the successful (or final) attempt
}

// DedupeTargets groups configurations by base URL so each distinct URL is
// probed once. Input order is preserved; the first config holding a URL
// decides the target's position, later ones only contribute their name.
// Configs without a base URL are skipped.
func DedupeTargets(configs []models.Config) []Target {
	var targets []Target
	index := map[string]int{}
	for _, cfg := range configs {
		if cfg.BaseURL == "" {
			continue
		}
		if i, seen := index[cfg.BaseURL]; seen {
			targets[i].Names = append(targets[i].Names, cfg.Name)
			continue
		}
		index[cfg.BaseURL] = len(targets)
		targets = append(targets, Target{
			BaseURL: cfg.BaseURL,
			Names:   []string{cfg.Name},
			Token:   cfg.AuthToken,
		})
	}
	return targets
}

// probeAttempt is one endpoint shape to try against a base URL.
type probeAttempt struct {
	method string
	suffix string
	body   string
}

// The fixed fallback sequence: list models, then a minimal chat completion,
// then a plain health endpoint. The sequence stops at the first attempt
// that draws any response proving the endpoint exists.
var probeAttempts = []probeAttempt{
	{method: http.MethodGet, suffix: "/v1/models"},
	{method: http.MethodPost, suffix: "/v1/messages",
		body: `{"model":"claude-3-5-haiku-20241022","max_tokens":1,"messages":[{"role":"user","content":"ping"}]}`},
	{method: http.MethodGet, suffix: "/health"},
}

// Prober runs the probe sequence against targets.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// ProberOption is a functional option for configuring a Prober
type ProberOption func(*Prober)

// WithTimeout sets the per-attempt timeout
func WithTimeout(timeout time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ProberOption {
	return func(p *Prober) {
		p.client = client
	}
}

// NewProber creates a Prober with a pooled HTTP client.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		timeout: DefaultTimeout,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:          10,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProbeAll probes every target concurrently. Targets are independent, so a
// failing sequence never aborts the others; results come back in input
// order regardless of completion order.
func (p *Prober) ProbeAll(targets []Target) []Result {
	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Probe(targets[i])
		}(i)
	}
	wg.Wait()
	return results
}

// Probe runs the attempt sequence against one target, stopping at the
// first classified success.
func (p *Prober) Probe(target Target) Result {
	var last Result
	for _, attempt := range probeAttempts {
		start := time.Now()
		statusCode, err := p.do(target, attempt)
		latency := time.Since(start)

		last = Result{
			Target:     target,
			Endpoint:   attempt.suffix,
			StatusCode: statusCode,
			Latency:    latency,
		}
		if err != nil {
			last.Status = StatusUnhealthy
			last.Cause = CategorizeTransportError(err, p.timeout)
			continue
		}

		// A 2xx or 4xx proves the endpoint exists and accepts connections,
		// even when the request itself was rejected.
		if (statusCode >= 200 && statusCode < 300) || (statusCode >= 400 && statusCode < 500) {
			last.Status = StatusReachable
			return last
		}
		last.Status = StatusUnhealthy
		if statusCode >= 500 {
			last.Cause = fmt.Sprintf("server error (HTTP %d)", statusCode)
		} else {
			last.Cause = fmt.Sprintf("unexpected status (HTTP %d)", statusCode)
		}
	}
	return last
}

// do performs a single attempt and returns the HTTP status code.
func (p *Prober) do(target Target, attempt probeAttempt) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var body io.Reader
	if attempt.body != "" {
		body = strings.NewReader(attempt.body)
	}
	req, err := http.NewRequestWithContext(ctx, attempt.method, utils.JoinURLPath(target.BaseURL, attempt.suffix), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
		req.Header.Set("x-api-key", target.Token)
	}
	if attempt.body != "" {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("anthropic-version", "2023-06-01")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}
