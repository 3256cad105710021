package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/metrics"
	"github.com/sammcj/localllm-mcp/tools"
	"github.com/sammcj/localllm-mcp/types"
)

const (
	ServerName = "localllm-mcp"

	instructions = "Delegate simple, already broken-down subtasks to a local LLM. " +
		"Use query_local_llm for standalone prompts and query_local_llm_with_context when the task needs a code excerpt or document."
)

// MCPServer exposes the local LLM tools over MCP
type MCPServer struct {
	server  *server.MCPServer
	querier *tools.Querier
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewMCPServer creates the server and registers both tools
func NewMCPServer(querier *tools.Querier, m *metrics.Metrics, logger zerolog.Logger, version string) *MCPServer {
	s := &MCPServer{
		querier: querier,
		metrics: m,
		logger:  logger,
	}

	s.server = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithInstructions(instructions),
		server.WithToolHandlerMiddleware(s.traceToolCall),
	)

	s.server.AddTool(tools.QueryToolSpec(), s.handleQueryTool)
	s.server.AddTool(tools.ContextQueryToolSpec(), s.handleContextQueryTool)

	s.server.AddNotificationHandler("notifications/initialized", s.handleNotification)

	logger.Debug().Strs("tools", []string{tools.QueryToolName, tools.ContextQueryToolName}).Msg("MCP server created")
	return s
}

// Server returns the underlying mcp-go server
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

func (s *MCPServer) handleQueryTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	text, err := s.queryLocalLLM(ctx, request)
	s.metrics.ObserveToolCall(tools.QueryToolName, err != nil, time.Since(start))
	if err != nil {
		text = tools.FormatQueryError(err)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *MCPServer) queryLocalLLM(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	var args tools.QueryArgs
	if err := request.BindArguments(&args); err != nil {
		return "", invalidArguments(tools.QueryToolName, err)
	}
	req, err := args.Request()
	if err != nil {
		return "", err
	}
	return s.querier.Query(ctx, req)
}

func (s *MCPServer) handleContextQueryTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	text, err := s.queryLocalLLMWithContext(ctx, request)
	s.metrics.ObserveToolCall(tools.ContextQueryToolName, err != nil, time.Since(start))
	if err != nil {
		text = tools.FormatContextQueryError(err)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *MCPServer) queryLocalLLMWithContext(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	var args tools.ContextQueryArgs
	if err := request.BindArguments(&args); err != nil {
		return "", invalidArguments(tools.ContextQueryToolName, err)
	}
	req, err := args.Request()
	if err != nil {
		return "", err
	}
	return s.querier.QueryWithContext(ctx, req)
}

func invalidArguments(tool string, err error) error {
	return &types.ToolError{
		Tool:    tool,
		Message: "invalid arguments",
		Err:     fmt.Errorf("%w: %v", types.ErrInvalidArguments, err),
	}
}

// traceToolCall tags each call with an id and logs its duration
func (s *MCPServer) traceToolCall(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.With().
			Str("call_id", uuid.NewString()).
			Str("tool", request.Params.Name).
			Logger()
		ctx = logger.WithContext(ctx)

		start := time.Now()
		logger.Debug().Msg("Tool call started")
		result, err := next(ctx, request)
		logger.Info().Dur("elapsed", time.Since(start)).Msg("Tool call finished")
		return result, err
	}
}

func (s *MCPServer) handleNotification(ctx context.Context, notification mcp.JSONRPCNotification) {
	s.logger.Debug().Str("method", notification.Method).Msg("Received notification")
}

// Serve runs the stdio transport until the input closes or ctx is cancelled
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info().Msg("Starting MCP server on stdio")

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(stdlog.New(s.logger.With().Str("component", "stdio").Logger(), "", 0))

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error().Err(err).Msg("Server error")
		return fmt.Errorf("server error: %w", err)
	}

	s.logger.Info().Msg("MCP server stopped")
	return nil
}

// Handler returns the streamable HTTP transport for mounting on a mux
func (s *MCPServer) Handler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.server, server.WithLogger(newMCPLogger(s.logger)))
}
