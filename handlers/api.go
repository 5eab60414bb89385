package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ainote-server/models"
	"ainote-server/noteerr"
)

// StatusInfo feeds the GET / status document
type StatusInfo struct {
	Providers map[string]bool // provider id -> API key configured
	Endpoints map[string]bool // provider id -> remote endpoint configured
}

// statusFromErr maps an error kind to the HTTP status for the response
func statusFromErr(err error) int {
	switch noteerr.KindOf(err) {
	case noteerr.KindInvalidInput:
		return http.StatusBadRequest
	case noteerr.KindNotFound:
		return http.StatusNotFound
	case noteerr.KindConflict:
		return http.StatusConflict
	case noteerr.KindProviderFailure:
		return http.StatusBadGateway
	default:
		// Configuration and Unavailable both need operator action
		return http.StatusServiceUnavailable
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
}

// SetupAPIRoutes configures all the API routes
func SetupAPIRoutes(router *gin.Engine, store NoteStore, annotator Annotator, status StatusInfo) {
	// Enable CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Status document: database reachability plus which providers are usable
	router.GET("/", func(c *gin.Context) {
		database := "connected"
		if err := store.Ping(); err != nil {
			database = "disconnected"
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "server running",
			"status": gin.H{
				"database":  database,
				"providers": status.Providers,
				"endpoints": status.Endpoints,
			},
		})
	})

	// Create a note
	router.POST("/notes", func(c *gin.Context) {
		var requestData models.CreateNoteRequest
		if err := c.BindJSON(&requestData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}

		note, err := store.CreateNote(c.Request.Context(), requestData.Content)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.CreateNoteResponse{
			ID:      note.ID,
			Message: "note saved",
		})
	})

	// List all notes, newest first
	router.GET("/notes", func(c *gin.Context) {
		notes, err := store.ListNotes(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, notes)
	})

	// Delete one note
	router.DELETE("/notes/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
			return
		}

		if err := store.DeleteNote(c.Request.Context(), id); err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
	})

	// Delete all notes
	router.DELETE("/notes", func(c *gin.Context) {
		deleted, err := store.DeleteAllNotes(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.DeleteAllResponse{
			Message:      "all notes deleted",
			DeletedCount: deleted,
		})
	})

	// Request an annotation from a specific provider
	router.POST("/annotate/:provider", func(c *gin.Context) {
		providerID := c.Param("provider")

		var requestData struct {
			Content string `json:"content"`
			NoteID  int64  `json:"noteId"`
		}
		if err := c.BindJSON(&requestData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}

		req := models.AnnotationRequest{
			NoteID:     requestData.NoteID,
			Content:    requestData.Content,
			ProviderID: providerID,
		}

		if err := annotator.Annotate(c.Request.Context(), req); err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "annotation request processed"})
	})
}
