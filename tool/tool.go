// Package tool exposes the engine's operations as a closed set of named tools
// with schema validated arguments and uniform error codes, so callers such as
// a CLI, an HTTP layer or a model's function calls dispatch by Operation
// rather than by free-form method names.
package tool

import (
	"context"
	"fmt"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/internal/util"
)

// Operation names one dispatchable engine operation.
type Operation string

const (
	OpValidateInsight    Operation = "validate_insight"
	OpManageConsensus    Operation = "manage_consensus"
	OpSynthesizeInsights Operation = "synthesize_insights"
	OpCoordinateAgents   Operation = "coordinate_agents"
	OpOpenVote           Operation = "open_vote"
	OpCastVote           Operation = "cast_vote"
	OpVoteResult         Operation = "vote_result"
	OpDelegateAuthority  Operation = "delegate_authority"
	OpRegisterAgent      Operation = "register_agent"
)

var operations = []Operation{
	OpValidateInsight,
	OpManageConsensus,
	OpSynthesizeInsights,
	OpCoordinateAgents,
	OpOpenVote,
	OpCastVote,
	OpVoteResult,
	OpDelegateAuthority,
	OpRegisterAgent,
}

// Operations returns every known operation in a stable order.
func Operations() []Operation { return append([]Operation(nil), operations...) }

// Valid reports whether op is one of the known operations.
func (op Operation) Valid() bool {
	for _, o := range operations {
		if o == op {
			return true
		}
	}

	return false
}

// ParseOperation returns the operation named s.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.Valid() {
		return "", NewToolError(s, fmt.Sprintf("unknown operation %q", s), CodeUnknownOperation)
	}

	return op, nil
}

// Tool is one dispatchable capability.
type Tool interface {
	// Operation returns the operation this tool serves.
	Operation() Operation

	// Description returns a human-readable description, also shown to models.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with arguments already decoded from JSON.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes carried by ToolError.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeExecution        = "EXECUTION_ERROR"
	CodeUnknownOperation = "UNKNOWN_OPERATION"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string    `json:"tool"`              // Name of the tool that failed
	Message string    `json:"message"`           // Error message
	Code    string    `json:"code"`              // Error code for categorization
	Details any       `json:"details,omitempty"` // Additional error details
	Kind    core.Kind `json:"kind"`

	err error
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the tagged engine error, if any.
func (e *ToolError) Unwrap() error { return e.err }

// NewToolError creates a new ToolError with the specified details. Validation
// and unknown operation errors are of kind invalid input.
func NewToolError(tool, message, code string) *ToolError {
	kind := core.KindInternal
	if code == CodeValidation || code == CodeUnknownOperation {
		kind = core.KindInvalidInput
	}

	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
		Kind:    kind,
		err:     &core.Error{Kind: kind},
	}
}

func wrapExecution(tool string, err error) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: err.Error(),
		Code:    CodeExecution,
		Kind:    core.KindOf(err),
		err:     err,
	}
}
