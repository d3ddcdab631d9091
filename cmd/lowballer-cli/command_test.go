package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowball-labs/go-lowball-agent/internal/llm"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want llm.Intent
	}{
		{"find ps5 under $500", llm.Intent{Kind: llm.IntentSearch, Query: "ps5"}},
		{"search standing desk", llm.Intent{Kind: llm.IntentSearch, Query: "standing desk"}},
		{"FIND iphone under 300", llm.Intent{Kind: llm.IntentSearch, Query: "iphone"}},
		{"listings", llm.Intent{Kind: llm.IntentListings}},
		{"ls", llm.Intent{Kind: llm.IntentListings}},
		{"open 2", llm.Intent{Kind: llm.IntentOpen, Index: 2}},
		{"chat 1", llm.Intent{Kind: llm.IntentChat, Index: 1}},
		{"lowball 3", llm.Intent{Kind: llm.IntentLowball, Index: 3}},
		{"negotiate 4", llm.Intent{Kind: llm.IntentLowball, Index: 4}},
		{"history", llm.Intent{Kind: llm.IntentHistory}},
		{"screenshot", llm.Intent{Kind: llm.IntentScreenshot}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseCommand(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Query, got.Query)
			assert.Equal(t, tt.want.Index, got.Index)
		})
	}
}

func TestParseCommandMaxPrice(t *testing.T) {
	got, ok := parseCommand("find ps5 under $499.99")
	require.True(t, ok)
	assert.Equal(t, "499.99", got.MaxPrice.String())

	got, ok = parseCommand("find ps5")
	require.True(t, ok)
	assert.True(t, got.MaxPrice.IsZero())
}

func TestParseCommandFallsThroughToLLM(t *testing.T) {
	for _, line := range []string{
		"what's a fair price for this?",
		"open the second one",
		"lowball",
	} {
		_, ok := parseCommand(line)
		assert.False(t, ok, "line %q must fall through", line)
	}
}
