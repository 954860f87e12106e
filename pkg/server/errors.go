package server

import (
	"errors"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"

	"github.com/ronnqvist/sfx-mcp/pkg/elevenlabs"
	"github.com/ronnqvist/sfx-mcp/pkg/sfx"
)

// JSON-RPC error codes surfaced to MCP clients.
const (
	codeInvalidParams int64 = -32602
	codeInternalError int64 = -32603
)

// translateError maps a generation failure onto a protocol error with a
// stable code. Only caller-supplied values rejected by validation map to
// INVALID_PARAMS; configuration faults (a missing API key is operator
// error, not caller error), provider trouble and local disk trouble are
// all INTERNAL_ERROR, distinguishable by message prefix. The original
// error detail is embedded verbatim; API keys never appear in details.
func translateError(err error) *jsonrpc.Error {
	if errors.Is(err, sfx.ErrInvalidFilename) {
		return &jsonrpc.Error{
			Code:    codeInvalidParams,
			Message: "Invalid parameter: " + err.Error(),
		}
	}

	var pathErr *sfx.PathError
	if errors.As(err, &pathErr) {
		return &jsonrpc.Error{
			Code:    codeInternalError,
			Message: "Filesystem error: " + err.Error(),
		}
	}

	var provErr *elevenlabs.Error
	if errors.As(err, &provErr) {
		switch provErr.Kind {
		case elevenlabs.KindInvalidParameter:
			return &jsonrpc.Error{
				Code:    codeInvalidParams,
				Message: "ElevenLabs parameter error: " + err.Error(),
			}
		case elevenlabs.KindAPIKeyMissing:
			return &jsonrpc.Error{
				Code:    codeInternalError,
				Message: "ElevenLabs API key configuration error: " + err.Error(),
			}
		case elevenlabs.KindRateLimited,
			elevenlabs.KindPermissionDenied,
			elevenlabs.KindGenerationFailed,
			elevenlabs.KindProviderAPI:
			return &jsonrpc.Error{
				Code:    codeInternalError,
				Message: "ElevenLabs API interaction error: " + err.Error(),
			}
		case elevenlabs.KindUnexpected:
			return &jsonrpc.Error{
				Code:    codeInternalError,
				Message: "An unexpected error occurred: " + err.Error(),
			}
		}
	}

	return &jsonrpc.Error{
		Code:    codeInternalError,
		Message: "An unexpected error occurred: " + err.Error(),
	}
}
