package mcp

import (
	"fmt"

	errs "github.com/mwmbl/ranker/internal/errors"
)

// JSON-RPC error codes used by the server.
const (
	ErrCodeInvalidParams = -32602
	ErrCodeInternalError = -32603

	// ErrCodeUpstream indicates the remote search engine failed.
	ErrCodeUpstream = -32001
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError creates an invalid-params protocol error.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// MapError converts internal errors to MCP protocol errors.
func MapError(err error) *MCPError {
	switch errs.CodeOf(err) {
	case errs.ErrCodeNetworkTimeout, errs.ErrCodeNetworkUnavailable, errs.ErrCodeUpstreamSearch:
		return &MCPError{Code: ErrCodeUpstream, Message: err.Error()}
	case errs.ErrCodeInvalidInput, errs.ErrCodeQueryEmpty:
		return &MCPError{Code: ErrCodeInvalidParams, Message: err.Error()}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: err.Error()}
	}
}
