// The annotation worker is the remote side of the dispatch path. One
// process serves one provider: it receives {content, noteId}, runs the
// provider client, writes the annotation into the shared notes store, and
// only then acknowledges. Mirrors the Lambda functions it stands in for.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ainote-server/ai"
	"ainote-server/db"
	"ainote-server/models"
	"ainote-server/noteerr"
	"ainote-server/utils"
)

func main() {
	providerID := flag.String("provider", ai.ProviderGemini, "provider this worker serves (gemini or claude)")
	port := flag.Int("port", 9090, "listen port")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("worker", *providerID).Logger()

	config, err := utils.LoadConfig("config.json")
	if err != nil {
		logger.Warn().Err(err).Msg("no configuration file, using defaults")
		config = utils.DefaultConfig()
	}

	var provider ai.Provider
	switch *providerID {
	case ai.ProviderGemini:
		provider = ai.NewGeminiClient(config.AI.GeminiAPIKey)
	case ai.ProviderClaude:
		provider = ai.NewClaudeClient(config.AI.AnthropicAPIKey)
	default:
		logger.Fatal().Str("provider", *providerID).Msg("unknown provider")
	}

	dbManager, err := db.NewMySQLManager(config.Database.GetDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connecting to MySQL")
	}
	defer dbManager.Close()

	router := gin.Default()

	router.POST("/invoke", func(c *gin.Context) {
		var req models.InvokeRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Content) == "" || req.NoteID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "content and noteId are required"})
			return
		}

		log := logger.With().Int64("noteId", req.NoteID).Logger()
		log.Info().Msg("invoke received")

		text, err := provider.Annotate(c.Request.Context(), req.Content)
		if err != nil {
			log.Error().Err(err).Msg("provider call failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		// Write back before acknowledging: the ack is the caller's only
		// evidence that the row was updated.
		if err := dbManager.SetAnnotation(c.Request.Context(), req.NoteID, text, provider.ID()); err != nil {
			log.Error().Err(err).Msg("annotation write failed")
			if noteerr.Is(err, noteerr.KindNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		log.Info().Msg("annotation stored")
		c.JSON(http.StatusOK, models.InvokeResponse{
			Message:        "annotation stored",
			AnnotationText: text,
		})
	})

	logger.Info().Int("port", *port).Msg("annotation worker starting")
	if err := router.Run(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
