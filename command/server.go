package command

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EluvK/ai-sketch/internal/api"
	"github.com/EluvK/ai-sketch/internal/config"
	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/llm/provider"
	"github.com/EluvK/ai-sketch/internal/middleware"
	"github.com/EluvK/ai-sketch/internal/stats"

	"github.com/paularlott/cli"
	"github.com/rs/zerolog/log"
)

var serverCmd = &cli.Command{
	Name:        "server",
	Usage:       "Start the ai-sketch server",
	Description: `Start the ai-sketch server and listen for API requests.`,
	MaxArgs:     cli.NoArgs,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "The address to listen on.",
			EnvVars: []string{config.CONFIG_ENV_PREFIX + "_LISTEN"},
		},
	},
	Run: func(ctx context.Context, cmd *cli.Command) error {
		setLogLevel(cmd)

		cfg, err := config.Load(cmd.GetString("config"))
		if err != nil {
			return err
		}
		if listen := cmd.GetString("listen"); listen != "" {
			cfg.Listen = listen
		}

		database.Initialize(cfg)

		client, err := provider.New(cfg.LLM)
		if err != nil {
			return err
		}

		monitor := stats.NewMonitor(database.GetInstance())
		if err := monitor.Start(cfg.Stats.Schedule); err != nil {
			return err
		}
		defer monitor.Stop()

		svc := api.NewService(cfg, client)

		router := http.NewServeMux()
		svc.ApiRoutes(router)

		server := &http.Server{
			Addr:         cfg.Listen,
			Handler:      middleware.Cors(cfg.Cors, router),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0, // streaming responses manage their own lifetime
		}

		go func() {
			log.Info().Str("listen", cfg.Listen).Msg("server: listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("server: failed to listen")
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		log.Info().Msg("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
