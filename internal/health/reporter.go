package health

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ccswitch/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

var (
	reachableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	unhealthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Reporter formats and outputs probe results.
type Reporter struct {
	writer     io.Writer
	jsonOutput bool
}

// ReporterOption is a functional option for configuring a Reporter
type ReporterOption func(*Reporter)

// WithJSONOutput enables JSON output format
func WithJSONOutput(jsonOutput bool) ReporterOption {
	return func(r *Reporter) {
		r.jsonOutput = jsonOutput
	}
}

// NewReporter creates a new probe result reporter.
func NewReporter(writer io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{writer: writer}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resultOutput is the structured form for JSON output
type resultOutput struct {
	Names      []string `json:"names"`
	BaseURL    string   `json:"baseUrl"`
	Status     string   `json:"status"`
	Cause      string   `json:"cause,omitempty"`
	StatusCode int      `json:"statusCode,omitempty"`
	Endpoint   string   `json:"endpoint,omitempty"`
	LatencyMs  int64    `json:"latencyMs"`
	Token      string   `json:"token"`
}

// Report outputs the results in the configured format. The token is always
// masked before display.
func (r *Reporter) Report(results []Result) error {
	if r.jsonOutput {
		return r.reportJSON(results)
	}
	return r.reportText(results)
}

func (r *Reporter) reportJSON(results []Result) error {
	out := make([]resultOutput, 0, len(results))
	for _, res := range results {
		out = append(out, resultOutput{
			Names:      res.Target.Names,
			BaseURL:    res.Target.BaseURL,
			Status:     string(res.Status),
			Cause:      res.Cause,
			StatusCode: res.StatusCode,
			Endpoint:   res.Endpoint,
			LatencyMs:  res.Latency.Milliseconds(),
			Token:      utils.MaskToken(res.Target.Token),
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}
	_, err = fmt.Fprintln(r.writer, string(data))
	return err
}

func (r *Reporter) reportText(results []Result) error {
	nameWidth, urlWidth := len("NAME"), len("URL")
	for _, res := range results {
		if n := len(strings.Join(res.Target.Names, ", ")); n > nameWidth {
			nameWidth = n
		}
		if n := len(res.Target.BaseURL); n > urlWidth {
			urlWidth = n
		}
	}

	fmt.Fprintf(r.writer, "  %-9s  %-*s  %-*s  %8s  %-12s  %s\n",
		"STATUS", nameWidth, "NAME", urlWidth, "URL", "LATENCY", "TOKEN", "DETAIL")

	for _, res := range results {
		status := unhealthyStyle.Render("✗ down")
		detail := res.Cause
		if res.Status == StatusReachable {
			status = reachableStyle.Render("✓ ok")
			detail = dimStyle.Render(fmt.Sprintf("HTTP %d on %s", res.StatusCode, res.Endpoint))
		}
		fmt.Fprintf(r.writer, "  %-18s  %-*s  %-*s  %6dms  %-12s  %s\n",
			status,
			nameWidth, strings.Join(res.Target.Names, ", "),
			urlWidth, res.Target.BaseURL,
			res.Latency.Milliseconds(),
			utils.MaskToken(res.Target.Token),
			detail)
	}
	return nil
}
