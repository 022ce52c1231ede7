package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/logging"
)

type castArgs struct {
	SessionID string `json:"session_id" description:"Vote session id"`
	AgentID   string `json:"agent_id"`
	Vote      bool   `json:"vote"`
	Reasoning string `json:"reasoning,omitempty"`
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("cast_vote")
	require.NoError(t, err)
	assert.Equal(t, OpCastVote, op)

	_, err = ParseOperation("drop_tables")
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeUnknownOperation, te.Code)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	assert.Len(t, Operations(), 9)
}

func TestFunctionTool_Success(t *testing.T) {
	tl := Typed(OpCastVote, "Cast a vote", func(_ context.Context, a castArgs) (any, error) {
		return a.AgentID + ":" + a.SessionID, nil
	})

	out, err := tl.Call(context.Background(), map[string]any{"session_id": "s1", "agent_id": "A", "vote": true})
	require.NoError(t, err)
	assert.Equal(t, "A:s1", out)

	props := tl.Parameters()["properties"].(map[string]any)
	assert.Contains(t, props, "session_id")
	assert.ElementsMatch(t, []string{"session_id", "agent_id", "vote"}, tl.Parameters()["required"])
}

func TestFunctionTool_ValidationError(t *testing.T) {
	tl := Typed(OpCastVote, "Cast a vote", func(context.Context, castArgs) (any, error) { return nil, nil })

	_, err := tl.Call(context.Background(), map[string]any{"session_id": "s1", "agent_id": "A"})
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeValidation, te.Code)
	assert.Equal(t, core.KindInvalidInput, te.Kind)

	_, err = tl.Call(context.Background(), map[string]any{"session_id": 7, "agent_id": "A", "vote": true})
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Message, "expected type string")
}

func TestFunctionTool_ExecutionErrorKeepsKind(t *testing.T) {
	tl := NewFunctionTool(OpVoteResult, "Result", map[string]any{"type": "object"}, func(context.Context, map[string]any) (any, error) {
		return nil, core.Errorf("vote.result", core.KindNotFound, "vote session %q", "x")
	})

	_, err := tl.Call(context.Background(), nil)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeExecution, te.Code)
	assert.Equal(t, core.KindNotFound, te.Kind)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry(logging.NoOpLogger{})

	require.NoError(t, r.Register(NewFunctionTool(OpRegisterAgent, "Register", nil, func(_ context.Context, args map[string]any) (any, error) {
		return args["agent_id"], nil
	})))

	assert.Error(t, r.Register(NewFunctionTool(OpRegisterAgent, "again", nil, nil)))
	assert.Error(t, r.Register(NewFunctionTool("shutdown", "nope", nil, nil)))

	out, err := r.Dispatch(context.Background(), OpRegisterAgent, map[string]any{"agent_id": "otto"})
	require.NoError(t, err)
	assert.Equal(t, "otto", out)

	_, err = r.Dispatch(context.Background(), OpCastVote, nil)
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeUnknownOperation, te.Code)

	decls := r.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, "register_agent", decls[0].Name)
}

func TestToolErrorFormatting(t *testing.T) {
	te := NewToolError("cast_vote", "bad", CodeValidation)
	assert.Equal(t, "tool error [VALIDATION_ERROR] in cast_vote: bad", te.Error())

	te = wrapExecution("x", errors.New("boom"))
	assert.Equal(t, core.KindInternal, te.Kind)
	assert.ErrorIs(t, te, core.ErrInternal)
}
