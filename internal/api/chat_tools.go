package api

import (
	"time"

	"github.com/EluvK/ai-sketch/internal/llm"

	"github.com/rs/zerolog/log"
)

type currentTimeArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"IANA timezone name, defaults to UTC"`
}

// registerBuiltinTools adds the tools every deployment carries.
func (svc *Service) registerBuiltinTools() {
	err := llm.RegisterTool(svc.registry, "current_time", "Get the current date and time", func(args currentTimeArgs) (any, error) {
		loc := time.UTC
		if args.Timezone != "" {
			parsed, err := time.LoadLocation(args.Timezone)
			if err != nil {
				return nil, err
			}
			loc = parsed
		}
		return time.Now().In(loc).Format(time.RFC3339), nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("api: failed to register builtin tools")
	}
}
