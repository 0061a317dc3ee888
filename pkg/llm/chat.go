// Package llm drives the Ollama chat model for tool routing and final
// answer synthesis.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ToolChoice is the routing decision for a question.
type ToolChoice struct {
	Document bool
	Search   bool
}

const routingSystemPrompt = `You are an expert clinical AI assistant. You must strictly reply in ONLY one of the following formats: TOOL: [Document], TOOL: [Search], or TOOL: [Both].

For questions about general medical information like recovery times, procedure durations, or standard practices, prefer TOOL: [Search].
For questions about specific medical cases or rare conditions found in the document database, use TOOL: [Document].
For questions that would benefit from both sources, use TOOL: [Both].

Never explain, never say anything else.`

const answerSystemPrompt = `You are an expert clinical AI assistant. Answer the question using only the provided context from document retrieval and web search. Cite the numbered sources you rely on. If the context does not contain the answer, say so.`

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string // Ollama server URL
}

// ChatEngine is an engine that uses an LLM to route questions between
// tools and to generate the final answer.
type ChatEngine struct {
	config ChatConfig
	llm    llms.Model
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.Model == "" {
		config.Model = "mistral"
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 500
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	llm, err := ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &ChatEngine{
		config: config,
		llm:    llm,
	}, nil
}

// Route asks the model which tools the question needs.
func (ce *ChatEngine) Route(ctx context.Context, question string) (ToolChoice, error) {
	user := fmt.Sprintf(
		"Question: %q\n\nDecide the best tool for answering it. Reply exactly with TOOL: [Document], TOOL: [Search], or TOOL: [Both]. No other text.",
		question,
	)
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, routingSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	resp, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return ToolChoice{}, fmt.Errorf("routing call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ToolChoice{}, fmt.Errorf("routing call returned no choices")
	}
	return ParseToolChoice(resp.Choices[0].Content), nil
}

// ParseToolChoice reads a TOOL: [...] reply. Unrecognized replies
// route to neither tool; the agent reports that as a routing miss.
func ParseToolChoice(reply string) ToolChoice {
	lower := strings.ToLower(reply)
	choice := ToolChoice{
		Document: strings.Contains(lower, "document"),
		Search:   strings.Contains(lower, "search"),
	}
	if strings.Contains(lower, "both") || strings.Contains(lower, "all") {
		choice.Document = true
		choice.Search = true
	}
	return choice
}

// Answer synthesizes the final answer from the merged tool output.
func (ce *ChatEngine) Answer(ctx context.Context, question, contextText string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, answerSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman,
			fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)),
	}

	resp, err := ce.llm.GenerateContent(ctx, content,
		llms.WithTemperature(ce.config.Temperature),
		llms.WithMaxTokens(ce.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return resp.Choices[0].Content, nil
}
