package command

import (
	"context"
	"os"

	"github.com/EluvK/ai-sketch/build"
	"github.com/EluvK/ai-sketch/internal/config"

	"github.com/paularlott/cli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var RootCmd = &cli.Command{
	Name:        "ai-sketch",
	Usage:       "Streaming AI chat backend",
	Description: `ai-sketch runs a streaming chat completion service with tool calling, plus the thin web backend around it.`,
	Version:     build.Version,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default is " + config.CONFIG_FILE + " in the current directory).",
			EnvVars: []string{config.CONFIG_ENV_PREFIX + "_CONFIG"},
		},
		&cli.StringFlag{
			Name:         "log-level",
			Usage:        "Log level (debug, info, warn, error).",
			EnvVars:      []string{config.CONFIG_ENV_PREFIX + "_LOGLEVEL"},
			DefaultValue: "info",
		},
	},
	Commands: []*cli.Command{
		serverCmd,
		chatCmd,
	},
}

func setLogLevel(cmd *cli.Command) {
	switch cmd.GetString("log-level") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Execute() {
	if err := RootCmd.Execute(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
