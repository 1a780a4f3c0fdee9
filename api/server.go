package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/newsscrape/archive"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Server serves archived article records over HTTP.
type Server struct {
	store *archive.Store
}

// NewServer creates a new API server backed by store.
func NewServer(store *archive.Store) *Server {
	return &Server{
		store: store,
	}
}

// SetupRouter configures the Gin router with all article routes
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1/articles")
	{
		api.GET("", s.HandleListArticles)
		api.GET("/:id", s.HandleGetArticle)
		api.DELETE("/:id", s.HandleDeleteArticle)
	}

	return router
}

// ListArticlesResponse represents the response for GET /api/v1/articles.
type ListArticlesResponse struct {
	Articles []archive.StoredArticle `json:"articles"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError sends a standardized error body.
func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// HandleListArticles handles GET /api/v1/articles.
func (s *Server) HandleListArticles(c *gin.Context) {
	limit := defaultLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		parsedLimit, err := strconv.Atoi(limitParam)
		if err != nil || parsedLimit < 1 {
			writeError(c, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
			return
		}
		limit = min(parsedLimit, maxLimit)
	}

	offset := 0
	if offsetParam := c.Query("offset"); offsetParam != "" {
		parsedOffset, err := strconv.Atoi(offsetParam)
		if err != nil || parsedOffset < 0 {
			writeError(c, http.StatusBadRequest, "invalid_parameter", "Invalid offset parameter")
			return
		}
		offset = parsedOffset
	}

	filter := archive.ArticleFilter{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}

	total, err := s.store.Count(filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count articles")
		writeError(c, http.StatusInternalServerError, "internal_error", "Failed to count articles: "+err.Error())
		return
	}

	articles, err := s.store.List(filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list articles")
		writeError(c, http.StatusInternalServerError, "internal_error", "Failed to list articles: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, ListArticlesResponse{
		Articles: articles,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// HandleGetArticle handles GET /api/v1/articles/{id}.
func (s *Server) HandleGetArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_id", "Invalid article ID: "+err.Error())
		return
	}

	article, err := s.store.Get(id)
	if errors.Is(err, archive.ErrArticleNotFound) {
		writeError(c, http.StatusNotFound, "not_found", "Article with ID "+id.String()+" not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "Failed to get article: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, article)
}

// HandleDeleteArticle handles DELETE /api/v1/articles/{id}.
func (s *Server) HandleDeleteArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_id", "Invalid article ID: "+err.Error())
		return
	}

	err = s.store.Delete(id)
	if errors.Is(err, archive.ErrArticleNotFound) {
		writeError(c, http.StatusNotFound, "not_found", "Article with ID "+id.String()+" not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal_error", "Failed to delete article: "+err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
