package advisor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/codefathom/fathom/internal/workflow"
)

// Model constants. The advisor answers one short question per call, so the
// cost-efficient model is the default; the high-end model is reserved for
// explicit configuration.
//
// Environment variable overrides:
// - FATHOM_MODEL: Override the advisor model
const (
	// ModelSonnet is the high-end model for deep reasoning
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model for short advisory prompts
	ModelHaiku = "claude-3-5-haiku-20241022"
)

// GetDefaultModel returns the advisor model, checking FATHOM_MODEL env var first
func GetDefaultModel() string {
	if model := os.Getenv("FATHOM_MODEL"); model != "" {
		return model
	}
	return ModelHaiku
}

// Advisor suggests what to look at next in the current investigation
// stage. It is strictly advisory: it never moves the session, and the
// navigation rules do not consult it.
type Advisor struct {
	client  *anthropic.Client
	model   string
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

// Config holds advisor configuration
type Config struct {
	APIKey string // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY env var)
	Model  string // Model to use (default: claude-3-5-haiku-20241022)

	// MaxConcurrentCalls bounds in-flight API calls (default 2)
	MaxConcurrentCalls int

	// CallsPerMinute throttles the request rate (default 10)
	CallsPerMinute int
}

// New creates an advisor.
func New(cfg *Config) (*Advisor, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetDefaultModel()
	}

	maxConcurrent := cfg.MaxConcurrentCalls
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	perMinute := cfg.CallsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Advisor{
		client:  &client,
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// Hint asks the advisor what to look at next given the session's position.
// The prompt carries only the stage, its guiding question, and the focus
// subject id; no code or content leaves the machine.
func (a *Advisor) Hint(ctx context.Context, state workflow.WorkflowState) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquiring advisor slot: %w", err)
	}
	defer a.sem.Release(1)

	prompt := buildHintPrompt(state)
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 300,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from advisor")
	}
	return strings.TrimSpace(resp.Content[0].Text), nil
}

func buildHintPrompt(state workflow.WorkflowState) string {
	var b strings.Builder
	b.WriteString("You are advising a developer working through a staged code investigation.\n")
	fmt.Fprintf(&b, "Current stage: %s\n", state.Stage)
	fmt.Fprintf(&b, "Guiding question for this stage: %s\n", state.Stage.Question())
	if state.HasFocus() {
		fmt.Fprintf(&b, "Current focus subject: %s\n", state.FocusID)
	} else {
		b.WriteString("No focus subject is selected.\n")
	}
	b.WriteString("\nIn two or three sentences, suggest what to examine next to make progress on the guiding question. Do not suggest skipping ahead to later stages.")
	return b.String()
}
