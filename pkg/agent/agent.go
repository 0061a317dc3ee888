// Package agent routes questions between the transcript retriever and
// web search, and merges their output for the chat model.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/atreyee-m/medTranscript-QA-agent/pkg/llm"
)

// NoTools is returned when routing selects nothing or every selected
// tool fails outright.
const NoTools = "Could not determine the right tool to use or both tools failed."

type Retriever interface {
	Retrieve(ctx context.Context, question string) (string, error)
}

type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type Router interface {
	Route(ctx context.Context, question string) (llm.ToolChoice, error)
}

// Agent is the explicit service object owning the question flow: one
// routing decision, the selected tool calls, and the merge of their
// text output. It holds no global state.
type Agent struct {
	Router    Router
	Retriever Retriever
	Searcher  Searcher
}

// Respond gathers context for the question from the routed tools.
// Tool failures are rendered as labelled text blocks so the caller
// always gets a printable result; only a routing failure surfaces as
// an error.
func (a *Agent) Respond(ctx context.Context, question string) (string, error) {
	choice, err := a.Router.Route(ctx, question)
	if err != nil {
		return "", fmt.Errorf("tool routing failed: %w", err)
	}

	var results []string
	if choice.Document {
		if info, err := a.Retriever.Retrieve(ctx, question); err != nil {
			results = append(results, fmt.Sprintf("Document retrieval error: %v", err))
		} else {
			results = append(results, "Document info:\n"+info)
		}
	}
	if choice.Search {
		if info, err := a.Searcher.Search(ctx, question); err != nil {
			results = append(results, fmt.Sprintf("Search error: %v", err))
		} else {
			results = append(results, "Search info:\n"+info)
		}
	}

	if len(results) == 0 {
		return NoTools, nil
	}
	return strings.Join(results, "\n\n"), nil
}
