package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/avoran/taskmate/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("openai_model", cfg.OpenAI.Model).
		Msg("read env")

	config.SetGlobal(cfg)
}
