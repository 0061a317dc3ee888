package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atreyee-m/medTranscript-QA-agent/pkg/agent"
	"github.com/atreyee-m/medTranscript-QA-agent/pkg/llm"
)

type fakeRouter struct {
	choice llm.ToolChoice
	err    error
}

func (f *fakeRouter) Route(context.Context, string) (llm.ToolChoice, error) {
	return f.choice, f.err
}

type fakeTool struct {
	result string
	err    error
	called bool
}

func (f *fakeTool) Retrieve(context.Context, string) (string, error) {
	f.called = true
	return f.result, f.err
}

func (f *fakeTool) Search(context.Context, string) (string, error) {
	f.called = true
	return f.result, f.err
}

func newAgent(choice llm.ToolChoice, ret, srch *fakeTool) *agent.Agent {
	return &agent.Agent{
		Router:    &fakeRouter{choice: choice},
		Retriever: ret,
		Searcher:  srch,
	}
}

func TestRespondDocumentOnly(t *testing.T) {
	ret := &fakeTool{result: "[Document 1] transcript text"}
	srch := &fakeTool{result: "should not appear"}
	a := newAgent(llm.ToolChoice{Document: true}, ret, srch)

	result, err := a.Respond(context.Background(), "rare condition?")
	require.NoError(t, err)

	assert.Contains(t, result, "Document info:\n[Document 1] transcript text")
	assert.True(t, ret.called)
	assert.False(t, srch.called)
}

func TestRespondSearchOnly(t *testing.T) {
	ret := &fakeTool{result: "should not appear"}
	srch := &fakeTool{result: "Title: recovery times"}
	a := newAgent(llm.ToolChoice{Search: true}, ret, srch)

	result, err := a.Respond(context.Background(), "recovery time?")
	require.NoError(t, err)

	assert.Contains(t, result, "Search info:\nTitle: recovery times")
	assert.False(t, ret.called)
	assert.True(t, srch.called)
}

func TestRespondBoth(t *testing.T) {
	ret := &fakeTool{result: "doc context"}
	srch := &fakeTool{result: "web context"}
	a := newAgent(llm.ToolChoice{Document: true, Search: true}, ret, srch)

	result, err := a.Respond(context.Background(), "question")
	require.NoError(t, err)

	assert.Contains(t, result, "Document info:\ndoc context")
	assert.Contains(t, result, "Search info:\nweb context")
}

func TestRespondNoToolSelected(t *testing.T) {
	a := newAgent(llm.ToolChoice{}, &fakeTool{}, &fakeTool{})

	result, err := a.Respond(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, agent.NoTools, result)
}

func TestRespondToolFailureBecomesText(t *testing.T) {
	ret := &fakeTool{err: errors.New("index unavailable")}
	srch := &fakeTool{result: "web context"}
	a := newAgent(llm.ToolChoice{Document: true, Search: true}, ret, srch)

	result, err := a.Respond(context.Background(), "question")
	require.NoError(t, err)

	assert.Contains(t, result, "Document retrieval error: index unavailable")
	assert.Contains(t, result, "Search info:\nweb context")
}

func TestRespondRoutingFailure(t *testing.T) {
	a := &agent.Agent{
		Router:    &fakeRouter{err: errors.New("model offline")},
		Retriever: &fakeTool{},
		Searcher:  &fakeTool{},
	}

	_, err := a.Respond(context.Background(), "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool routing failed")
}
