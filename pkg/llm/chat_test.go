package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atreyee-m/medTranscript-QA-agent/pkg/llm"
)

func TestNewWithConfig(t *testing.T) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       "mistral",
		Temperature: 0.5,
		MaxTokens:   500,
		BaseURL:     "http://localhost:11434",
	})
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestNewWithConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config llm.ChatConfig
	}{
		{
			name:   "temperature too high",
			config: llm.ChatConfig{Temperature: 1.5},
		},
		{
			name:   "temperature negative",
			config: llm.ChatConfig{Temperature: -0.1},
		},
		{
			name:   "negative max tokens",
			config: llm.ChatConfig{MaxTokens: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llm.NewWithConfig(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestParseToolChoice(t *testing.T) {
	tests := []struct {
		reply string
		want  llm.ToolChoice
	}{
		{"TOOL: [Document]", llm.ToolChoice{Document: true}},
		{"TOOL: [Search]", llm.ToolChoice{Search: true}},
		{"TOOL: [Both]", llm.ToolChoice{Document: true, Search: true}},
		{"tool: [all]", llm.ToolChoice{Document: true, Search: true}},
		{"  TOOL: [document]  ", llm.ToolChoice{Document: true}},
		{"I think the Search tool fits best.", llm.ToolChoice{Search: true}},
		{"no tool marker at all", llm.ToolChoice{}},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.ParseToolChoice(tt.reply))
		})
	}
}
