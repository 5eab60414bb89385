package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ainote-server/ai"
	"ainote-server/annotate"
	"ainote-server/db"
	"ainote-server/dispatch"
	"ainote-server/handlers"
	"ainote-server/utils"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load the configuration, falling back to defaults plus environment
	// overrides when no file is present
	config, err := utils.LoadConfig("config.json")
	if err != nil {
		logger.Warn().Err(err).Msg("no configuration file, using defaults")
		config = utils.DefaultConfig()
	}

	// Connect to MySQL and bring the schema up to date. A store that
	// cannot start is fatal: supervision restarts the process.
	dbManager, err := db.NewMySQLManager(config.Database.GetDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to MySQL")
	}
	defer dbManager.Close()

	if err := dbManager.InitTables(); err != nil {
		logger.Fatal().Err(err).Msg("initializing tables")
	}
	if err := dbManager.ApplyMigrations(); err != nil {
		logger.Fatal().Err(err).Msg("applying migrations")
	}

	// Register the provider clients. A provider without an API key still
	// registers; it reports a configuration failure when called, unless
	// its remote endpoint takes the request first.
	providers := ai.NewRegistry()
	providers.Register(ai.NewGeminiClient(config.AI.GeminiAPIKey))
	providers.Register(ai.NewClaudeClient(config.AI.AnthropicAPIKey))

	// Remote dispatch endpoints, one per provider. The Bedrock worker
	// serves the claude provider.
	dispatcher := dispatch.NewClient(map[string]string{
		ai.ProviderGemini: config.AI.GeminiLambdaURL,
		ai.ProviderClaude: config.AI.BedrockLambdaURL,
	})

	orchestrator := annotate.NewOrchestrator(dbManager, providers, dispatcher, logger)

	router := gin.Default()
	handlers.SetupAPIRoutes(router, dbManager, orchestrator, handlers.StatusInfo{
		Providers: map[string]bool{
			ai.ProviderGemini: config.AI.GeminiAPIKey != "",
			ai.ProviderClaude: config.AI.AnthropicAPIKey != "",
		},
		Endpoints: map[string]bool{
			ai.ProviderGemini: config.AI.GeminiLambdaURL != "",
			ai.ProviderClaude: config.AI.BedrockLambdaURL != "",
		},
	})

	logger.Info().Int("port", config.Server.Port).Msg("API server starting")
	if err := router.Run(fmt.Sprintf(":%d", config.Server.Port)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
