package report

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Provider names accepted by NewAIGenerator.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// Default chat models per provider.
const (
	defaultOpenAIModel = "gpt-4o"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

const systemPrompt = "You are a data quality expert. Provide clear, " +
	"actionable insights about data cleaning operations."

// AIConfig configures the LLM-backed narrative generator.
type AIConfig struct {
	// Provider is "openai" or "groq".
	Provider string
	// APIKey authenticates with the provider.
	APIKey string
	// Model overrides the provider default when non-empty.
	Model string
	// BaseURL overrides the provider endpoint when non-empty.
	BaseURL string
}

// NewAIGenerator builds a Generator backed by an OpenAI-compatible chat
// API. The returned Generator honors its context, so Generate's timeout
// bounds the HTTP call.
func NewAIGenerator(cfg AIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("report: %s API key is required", cfg.Provider)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	model := cfg.Model
	switch strings.ToLower(cfg.Provider) {
	case ProviderGroq:
		clientCfg.BaseURL = groqBaseURL
		if model == "" {
			model = defaultGroqModel
		}
	case ProviderOpenAI, "":
		if model == "" {
			model = defaultOpenAIModel
		}
	default:
		return nil, fmt.Errorf("report: unknown provider %q", cfg.Provider)
	}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	return func(ctx context.Context, in Input) (string, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: buildPrompt(in)},
			},
			Temperature: 0.7,
			MaxTokens:   500,
		})
		if err != nil {
			return "", fmt.Errorf("report: chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("report: chat completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	}, nil
}

// buildPrompt assembles the analysis prompt from the structured summary.
func buildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("Analyze this data cleaning operation and provide a concise, professional report.\n\n")

	fmt.Fprintf(&b, "ORIGINAL DATA:\n- Rows: %d\n- Columns: %d\n- Missing values: %d\n",
		in.Original.Rows, in.Original.Columns, in.Original.MissingTotal)
	cols := in.Columns
	if len(cols) > 10 {
		cols = cols[:10]
	}
	fmt.Fprintf(&b, "- Column names: %s\n\n", strings.Join(cols, ", "))

	b.WriteString("CLEANING OPERATIONS PERFORMED:\n")
	for _, step := range in.Steps {
		fmt.Fprintf(&b, "- %s\n", step.Description)
	}

	fmt.Fprintf(&b, "\nCLEANED DATA:\n- Rows: %d\n- Columns: %d\n- Missing values: %d\n",
		in.Cleaned.Rows, in.Cleaned.Columns, in.Cleaned.MissingTotal)

	sum := in.Summary
	fmt.Fprintf(&b, "\nSUMMARY:\n- Rows removed: %d\n- Duplicates removed: %d\n"+
		"- Missing values fixed: %d\n- Outliers replaced: %d\n- Date columns fixed: %d\n",
		sum.RowsRemoved, sum.DuplicatesRemoved, sum.MissingValuesHandled,
		sum.OutliersReplaced, sum.DateColumnsFixed)

	b.WriteString(`
Please provide:
1. A brief overview of the data quality before cleaning
2. What issues were found and fixed
3. Data quality improvements achieved
4. Recommendations for further improvements (if any)

Keep the report concise (2-3 paragraphs) and actionable.
`)
	return b.String()
}
