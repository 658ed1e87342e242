package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EluvK/ai-sketch/internal/config"
	"github.com/EluvK/ai-sketch/internal/llm"
	"github.com/EluvK/ai-sketch/internal/util/rest"

	"github.com/paularlott/cli"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorBlue   = "\033[34m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorRed    = "\033[31m"
)

type chatStreamRequest struct {
	Messages []llm.ChatMessage `json:"messages"`
}

// streamEvent mirrors the server's SSE payloads: a text delta, a progress
// note or a terminal error.
type streamEvent struct {
	Delta     string `json:"d,omitempty"`
	Procedure string `json:"p,omitempty"`
	Error     string `json:"error,omitempty"`
}

var chatCmd = &cli.Command{
	Name:  "chat",
	Usage: "Start an interactive chat session with the AI assistant",
	Description: `The chat command allows you to have an interactive conversation with the AI assistant.

Type your messages and press Enter to send them. The assistant will respond in real-time.
Type 'exit' or 'quit' to end the session.`,
	MaxArgs: cli.NoArgs,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "The address of the remote server to connect to.",
			EnvVars: []string{config.CONFIG_ENV_PREFIX + "_SERVER"},
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "The access token to use for authentication.",
			EnvVars: []string{config.CONFIG_ENV_PREFIX + "_TOKEN"},
		},
		&cli.BoolFlag{
			Name:         "tls-skip-verify",
			Usage:        "Skip TLS verification when talking to server.",
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_TLS_SKIP_VERIFY"},
			DefaultValue: false,
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		setLogLevel(cmd)

		server := cmd.GetString("server")
		if server == "" {
			return fmt.Errorf("server address is required")
		}

		client, err := rest.NewClient(server, cmd.GetString("token"), cmd.GetBool("tls-skip-verify"))
		if err != nil {
			return fmt.Errorf("failed to create REST client: %w", err)
		}
		client.SetTimeout(5 * time.Minute)

		fmt.Printf("%sai-sketch assistant%s\n", colorBold+colorCyan, colorReset)
		fmt.Printf("%sType your message and press Enter. Type 'exit' or 'quit' to end the session.%s\n", colorGray, colorReset)
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		var messages []llm.ChatMessage

		for {
			fmt.Printf("%s%sYou:%s ", colorBold, colorBlue, colorReset)
			if !scanner.Scan() {
				break
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				fmt.Printf("%sGoodbye!%s\n", colorYellow, colorReset)
				break
			}

			messages = append(messages, llm.UserMessage(input))

			reply, err := sendChatRequest(ctx, client, messages)
			if err != nil {
				fmt.Printf("%sError:%s %v\n", colorRed, colorReset, err)
				continue
			}

			reply = strings.TrimSpace(reply)
			if reply != "" {
				messages = append(messages, llm.AssistantMessage(reply))
			}

			fmt.Println()
		}

		return nil
	},
}

func sendChatRequest(ctx context.Context, client *rest.RESTClient, messages []llm.ChatMessage) (string, error) {
	fmt.Printf("%s%sAssistant:%s ", colorBold, colorGreen, colorReset)

	var reply strings.Builder

	err := rest.StreamData(client, ctx, "POST", "api/chat/stream", chatStreamRequest{Messages: messages},
		func(event *streamEvent) (bool, error) {
			switch {
			case event.Error != "":
				return true, fmt.Errorf("server error: %s", event.Error)
			case event.Procedure != "":
				fmt.Printf("\n%s[%s]%s\n", colorGray, event.Procedure, colorReset)
			case event.Delta != "":
				fmt.Print(event.Delta)
				reply.WriteString(event.Delta)
			}
			return false, nil
		})

	fmt.Println()

	if err != nil {
		return "", err
	}
	return reply.String(), nil
}
