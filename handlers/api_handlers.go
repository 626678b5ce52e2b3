package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"student-marks-go/db"
	"student-marks-go/models"
)

const (
	// MissingNameMessage is returned in the body, with status 200, when no name is given
	MissingNameMessage = "Please provide at least one name"
	// UsageMessage is served by the root endpoint
	UsageMessage = "Student Marks API. Use /api?name=X&name=Y to get marks."
)

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Dataset *db.Dataset
	Cache   *db.MarksCache // nil when caching is disabled
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(dataset *db.Dataset, cache *db.MarksCache) *APIHandler {
	return &APIHandler{
		Dataset: dataset,
		Cache:   cache,
	}
}

// GetMarks handles GET /api?name=X&name=Y
func (h *APIHandler) GetMarks(c *gin.Context) {
	names := c.QueryArray("name")
	if len(names) == 0 {
		c.JSON(http.StatusOK, models.ErrorResponse{Error: MissingNameMessage})
		return
	}

	c.JSON(http.StatusOK, models.MarksResponse{Marks: h.lookup(c, names)})
}

// lookup consults the cache first when one is configured. Cache failures are
// logged and the in-memory dataset answers instead.
func (h *APIHandler) lookup(c *gin.Context, names []string) []*int {
	if h.Cache == nil {
		return h.Dataset.Lookup(names)
	}

	ctx := c.Request.Context()
	fingerprint := h.Dataset.Fingerprint()

	marks, hit, err := h.Cache.Get(ctx, fingerprint, names)
	if err != nil {
		log.Printf("Warning: marks cache read failed: %v", err)
	}
	if hit {
		c.Header("X-Cache", "HIT")
		return marks
	}

	marks = h.Dataset.Lookup(names)
	c.Header("X-Cache", "MISS")
	if err := h.Cache.Set(ctx, fingerprint, names, marks); err != nil {
		log.Printf("Warning: marks cache write failed: %v", err)
	}
	return marks
}

// Root handles GET /. PureJSON keeps the '&' in the usage text unescaped.
func (h *APIHandler) Root(c *gin.Context) {
	c.PureJSON(http.StatusOK, models.MessageResponse{Message: UsageMessage})
}

// Ping handles GET /api/ping
func (h *APIHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!", "records": h.Dataset.Len()})
}
