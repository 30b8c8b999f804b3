// Command contentagent runs the content agent REPL: a chat loop over an
// OpenAI-compatible endpoint with content-retrieval tools served by an MCP
// server subprocess.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/contentmcp/agent/agent"
	"github.com/contentmcp/agent/config"
	"github.com/contentmcp/agent/mcphost"
	"github.com/contentmcp/agent/openai"
	"github.com/contentmcp/agent/provider"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "contentagent",
	Short: "Chat agent with MCP content-retrieval tools",
	Long: `contentagent connects a chat-completion LLM endpoint (OpenAI or a
local server such as LM Studio or Ollama) with the content MCP server and
runs an interactive conversation.

Type 'exit' to end the conversation and 'reset' to clear context.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.contentagent.yaml"
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registerProviders(cfg)
	backend, err := provider.Get(cfg.ProviderName())
	if err != nil {
		return err
	}
	if !cfg.UseOpenAI {
		logger.Info("using local LLM", "endpoint", cfg.Endpoint())
	}

	ctx := cmd.Context()

	opts := []agent.Option{agent.WithLogger(logger)}
	if cfg.UseOpenAI {
		opts = append(opts, agent.WithRemoteAPI())
	}
	if cfg.Temperature > 0 {
		opts = append(opts, agent.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, agent.WithMaxTokens(cfg.MaxTokens))
	}

	host, err := mcphost.NewStdioClient(ctx, cfg.MCP.Command, cfg.MCP.Args)
	if err != nil {
		logger.Warn("could not start MCP server; running without tools", "error", err)
	} else {
		defer func() { _ = host.Close() }()
		opts = append(opts, agent.WithToolHost(host))

		prompt, err := host.SystemPrompt(ctx)
		if err != nil {
			logger.Warn("could not get system prompt from MCP server", "error", err)
		} else if prompt != "" {
			opts = append(opts, agent.WithSystemPrompt(prompt))
		}
	}

	a, err := agent.New(backend, cfg.ModelName(), opts...)
	if err != nil {
		return err
	}

	return repl(cmd, a)
}

func repl(cmd *cobra.Command, a *agent.Agent) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Content Agent ===")
	fmt.Fprintln(out, "Type 'exit' to end the conversation")
	fmt.Fprintln(out, "Type 'reset' to clear context before a new request")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "User: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit", "bye":
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case "reset", "clear", "new":
			a.Reset()
			fmt.Fprintln(out, "\nConversation context cleared. Start with a new request.")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Agent: %s\n\n", a.ProcessMessage(cmd.Context(), input))
	}
}

func registerProviders(cfg *config.Config) {
	provider.Register("openai", func() (provider.Provider, error) {
		return openai.New(openai.WithAPIKey(cfg.APIKey))
	})
	provider.Register("local", func() (provider.Provider, error) {
		opts := []openai.Option{
			openai.WithName("local"),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithAPIKey(cfg.APIKey),
		}
		if cfg.InsecureTLS {
			opts = append(opts, openai.WithInsecureTLS())
		}
		return openai.New(opts...)
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
