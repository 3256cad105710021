package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/util"
	"github.com/rs/zerolog"
)

// mcpLogger adapts zerolog to the logger interface of the mcp-go HTTP transport
type mcpLogger struct {
	logger zerolog.Logger
}

var _ util.Logger = mcpLogger{}

func newMCPLogger(logger zerolog.Logger) mcpLogger {
	return mcpLogger{logger: logger.With().Str("component", "streamable_http").Logger()}
}

func (l mcpLogger) Infof(format string, v ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, v...))
}

func (l mcpLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, v...))
}
