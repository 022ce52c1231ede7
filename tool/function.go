package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/while-basic/celaya-parachain-sub001/internal/util"
)

// FunctionTool exposes a plain Go function as a Tool.
//
// Arguments are validated against the declared schema before the function
// runs. Failures come back as *ToolError:
//
//	VALIDATION_ERROR -> schema / argument mismatch
//	EXECUTION_ERROR  -> the function returned an error (its kind is preserved)
//
// A FunctionTool has no mutable state and is safe for concurrent use.
type FunctionTool struct {
	op          Operation
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit schema.
func NewFunctionTool(
	op Operation,
	description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{op: op, description: description, parameters: parameters, fn: fn}
}

// NewFunctionToolFromStruct derives the parameter schema from an argument struct.
//
// Example:
//
//	type castArgs struct {
//	  SessionID string `json:"session_id" description:"Vote session id"`
//	  AgentID   string `json:"agent_id"`
//	  Vote      bool   `json:"vote"`
//	}
//
//	t := NewFunctionToolFromStruct(OpCastVote, "Cast a vote", castArgs{}, fn)
func NewFunctionToolFromStruct(
	op Operation,
	description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return NewFunctionTool(op, description, util.CreateSchema(structType), fn)
}

// Typed wraps a function taking a decoded argument struct. The schema is
// derived from T.
func Typed[T any](op Operation, description string, fn func(ctx context.Context, args T) (any, error)) *FunctionTool {
	var zero T

	return NewFunctionToolFromStruct(op, description, zero, func(ctx context.Context, raw map[string]any) (any, error) {
		args, err := Decode[T](raw)
		if err != nil {
			return nil, NewToolError(string(op), err.Error(), CodeValidation)
		}

		return fn(ctx, args)
	})
}

// Operation implements Tool.
func (t *FunctionTool) Operation() Operation { return t.op }

// Description implements Tool.
func (t *FunctionTool) Description() string { return t.description }

// Parameters implements Tool.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates args and invokes the wrapped function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}

	if err := util.ValidateParameters(args, t.parameters); err != nil {
		te := NewToolError(string(t.op), fmt.Sprintf("parameter validation failed: %v", err), CodeValidation)
		te.Details = err

		return nil, te
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}

		return nil, wrapExecution(string(t.op), err)
	}

	return result, nil
}

// Decode converts JSON-shaped args into T.
func Decode[T any](args map[string]any) (T, error) {
	var out T

	b, err := json.Marshal(args)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}

	return out, nil
}
