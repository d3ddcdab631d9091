package llm

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolCall(name, args string) openai.ToolCall {
	return openai.ToolCall{
		Type:     openai.ToolTypeFunction,
		Function: openai.FunctionCall{Name: name, Arguments: args},
	}
}

func TestIntentFromToolCall(t *testing.T) {
	in, err := intentFromToolCall(toolCall("search_listings", `{"query":"ps5","max_price":500}`))
	require.NoError(t, err)
	assert.Equal(t, IntentSearch, in.Kind)
	assert.Equal(t, "ps5", in.Query)
	assert.Equal(t, "500", in.MaxPrice.String())

	in, err = intentFromToolCall(toolCall("delegate_lowball", `{"listing_index":3}`))
	require.NoError(t, err)
	assert.Equal(t, IntentLowball, in.Kind)
	assert.Equal(t, 3, in.Index)

	in, err = intentFromToolCall(toolCall("show_history", ""))
	require.NoError(t, err)
	assert.Equal(t, IntentHistory, in.Kind)
}

func TestIntentFromToolCallRejectsUnknownTool(t *testing.T) {
	_, err := intentFromToolCall(toolCall("rm_rf", `{}`))
	assert.Error(t, err)
}

func TestIntentFromToolCallRejectsBadArguments(t *testing.T) {
	_, err := intentFromToolCall(toolCall("search_listings", `{broken`))
	assert.Error(t, err)
}

func TestCleanMessage(t *testing.T) {
	assert.Equal(t, "Would $65 work?", cleanMessage(`  "Would $65 work?"  `))
	assert.Equal(t, "plain", cleanMessage("plain"))
}
