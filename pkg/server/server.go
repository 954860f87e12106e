// Package server exposes sound-effect generation as an MCP tool over
// stdio. Protocol framing is owned by the SDK; this package owns the
// tool schema, the handler, and the error translation.
package server

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ronnqvist/sfx-mcp/pkg/logger"
	"github.com/ronnqvist/sfx-mcp/pkg/sfx"
)

const serverName = "sfx-mcp"

// GenerateSFXInput is the generate_sfx tool argument schema. text is the
// only required field.
type GenerateSFXInput struct {
	Text            string   `json:"text" jsonschema:"The text prompt for the sound effect."`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" jsonschema:"Optional duration of the sound effect in seconds."`
	PromptInfluence *float64 `json:"prompt_influence,omitempty" jsonschema:"Optional influence of the prompt on the generation (0.0 to 1.0)."`
	OutputDirectory string   `json:"output_directory,omitempty" jsonschema:"Optional directory where the sound effect is saved. Absolute or relative to the server's working directory. Defaults to the configured output directory."`
	OutputFilename  string   `json:"output_filename,omitempty" jsonschema:"Optional filename for the sound effect (including extension). Defaults to a unique generated name. Versioning (filename_v2.mp3) is applied if the file already exists."`
}

// Server wires the generation service into an MCP stdio server.
type Server struct {
	svc       *sfx.Service
	mcpServer *mcp.Server
}

// New builds the MCP server and registers the generate_sfx tool.
func New(svc *sfx.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: "MCP server for generating sound effects using the ElevenLabs API.",
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_sfx",
		Description: "Generates a sound effect based on a text prompt using the ElevenLabs API and returns the path to the audio file.",
	}, s.handleGenerateSFX)

	return s
}

// Run serves MCP over stdin/stdout until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.InfoCF("server", "Serving MCP over stdio", map[string]any{
		"server": serverName,
	})
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleGenerateSFX(ctx context.Context, _ *mcp.CallToolRequest, in GenerateSFXInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, nil, &jsonrpc.Error{
			Code:    codeInvalidParams,
			Message: "Missing or invalid 'text' parameter.",
		}
	}

	logger.InfoCF("server", "generate_sfx called", map[string]any{
		"text_length":  len(in.Text),
		"has_dir_hint": in.OutputDirectory != "",
	})

	path, err := s.svc.Generate(ctx, sfx.Request{
		Text:            in.Text,
		DurationSeconds: in.DurationSeconds,
		PromptInfluence: in.PromptInfluence,
		OutputDirectory: in.OutputDirectory,
		OutputFilename:  in.OutputFilename,
	})
	if err != nil {
		logger.ErrorCF("server", "generate_sfx failed", map[string]any{
			"error": err.Error(),
		})
		return nil, nil, translateError(err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: path},
		},
	}, nil, nil
}
