package interactive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/config"
	"github.com/sammcj/localllm-mcp/tools"
)

// Interactive is a terminal chat loop over query_local_llm
type Interactive struct {
	querier *tools.Querier
	cfg     *config.Config
	in      *bufio.Reader
	out     io.Writer
	logger  zerolog.Logger
}

// New creates a console reading prompts from in and writing replies to out
func New(cfg *config.Config, querier *tools.Querier, in io.Reader, out io.Writer, logger zerolog.Logger) *Interactive {
	return &Interactive{
		querier: querier,
		cfg:     cfg,
		in:      bufio.NewReader(in),
		out:     out,
		logger:  logger,
	}
}

// Start reads prompts until quit, exit, end of input or ctx is cancelled
func (i *Interactive) Start(ctx context.Context) error {
	fmt.Fprintln(i.out, "\n=== Local LLM Chat Interface Ready ===")
	fmt.Fprintln(i.out, "Type 'quit' or press Ctrl+C to exit")
	fmt.Fprintln(i.out, "Connected to model:", i.cfg.LLM.Model)
	fmt.Fprintf(i.out, "Using endpoint: %s\n", i.cfg.LLM.BaseURL)
	fmt.Fprintln(i.out, "======================================")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(i.out, "\nEnter your message: ")
		input, err := i.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		input = strings.TrimSpace(input)
		switch {
		case input == "quit" || input == "exit":
			fmt.Fprintln(i.out, "Goodbye!")
			return nil
		case input != "":
			i.logger.Debug().Int("prompt_len", len(input)).Msg("Sending prompt")
			i.respond(ctx, input)
		}

		if eof {
			fmt.Fprintln(i.out)
			return nil
		}
	}
}

func (i *Interactive) respond(ctx context.Context, prompt string) {
	response := i.querier.QueryLocalLLM(ctx, tools.QueryRequest{Prompt: prompt})
	if response == "" {
		i.logger.Warn().Msg("Empty response received")
		fmt.Fprintln(i.out, "\nNo response received.")
		return
	}
	fmt.Fprintf(i.out, "\n%s\n", response)
}
