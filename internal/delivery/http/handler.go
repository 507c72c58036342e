package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/usecase"
)

// Services groups the usecases served over HTTP
type Services struct {
	Search *usecase.SearchService
	Games  *usecase.GameService
	System *usecase.SystemService
	Auth   *usecase.AuthService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
	games  *usecase.GameService
	system *usecase.SystemService
	auth   *usecase.AuthService
}

// NewHandler creates a new HTTP handler
func NewHandler(s Services) *Handler {
	return &Handler{
		search: s.Search,
		games:  s.Games,
		system: s.System,
		auth:   s.Auth,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "steamexplorer-backend",
		"version": "1.0.0",
	})
}

// SearchGames handles GET /games/search?q=
func (h *Handler) SearchGames(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GameDetails handles GET /games/:id/details
func (h *Handler) GameDetails(c *gin.Context) {
	appID, ok := appIDParam(c)
	if !ok {
		return
	}

	details, err := h.games.Details(c.Request.Context(), appID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GameRequirements handles GET /games/:id/requirements
func (h *Handler) GameRequirements(c *gin.Context) {
	appID, ok := appIDParam(c)
	if !ok {
		return
	}

	reqs, err := h.games.Requirements(c.Request.Context(), appID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GameReviews handles GET /games/:id/reviews
func (h *Handler) GameReviews(c *gin.Context) {
	appID, ok := appIDParam(c)
	if !ok {
		return
	}

	numPerPage, err := optionalInt(c, "num_per_page")
	if err != nil {
		writeError(c, err)
		return
	}

	page, err := h.games.Reviews(c.Request.Context(), appID, domain.ReviewQuery{
		Filter:     c.Query("filter"),
		Language:   c.Query("language"),
		ReviewType: c.Query("review_type"),
		NumPerPage: numPerPage,
		Cursor:     c.Query("cursor"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GameNews handles GET /games/:id/news?count=
func (h *Handler) GameNews(c *gin.Context) {
	appID, ok := appIDParam(c)
	if !ok {
		return
	}

	count, err := optionalInt(c, "count")
	if err != nil {
		writeError(c, err)
		return
	}

	news, err := h.games.News(c.Request.Context(), appID, count)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// GameStats handles GET /games/:id/stats
func (h *Handler) GameStats(c *gin.Context) {
	appID, ok := appIDParam(c)
	if !ok {
		return
	}

	stats, err := h.games.Stats(c.Request.Context(), appID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// specsResponse flattens the host snapshot next to the status field
type specsResponse struct {
	domain.HostSpec
	Status string `json:"status"`
}

// SystemSpecs handles GET /specs
func (h *Handler) SystemSpecs(c *gin.Context) {
	c.JSON(http.StatusOK, specsResponse{
		HostSpec: h.system.Specs(c.Request.Context()),
		Status:   "success",
	})
}

// SystemTest handles GET /test
func (h *Handler) SystemTest(c *gin.Context) {
	c.JSON(http.StatusOK, h.system.Test(c.Request.Context()))
}

type compareRequest struct {
	GameRequirements map[string]json.RawMessage `json:"game_requirements"`
	Type             string                     `json:"type"`
}

// CompareSpecs handles POST /compare
func (h *Handler) CompareSpecs(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GameRequirements == nil {
		writeError(c, fmt.Errorf("%w: game requirements not provided", domain.ErrInvalidArgument))
		return
	}

	tiers, err := usecase.ResolveTiers(req.GameRequirements)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.system.Compare(c.Request.Context(), tiers, req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register handles POST /register
func (h *Handler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: request body is required", domain.ErrInvalidArgument))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: request body is required", domain.ErrInvalidArgument))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me handles GET /me with a bearer token
func (h *Handler) Me(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

	user, err := h.auth.Me(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// appIDParam parses the :id path segment, writing a 400 when it is not a positive integer
func appIDParam(c *gin.Context) (int, bool) {
	appID, err := strconv.Atoi(c.Param("id"))
	if err != nil || appID <= 0 {
		writeError(c, fmt.Errorf("%w: app id must be a positive integer", domain.ErrInvalidArgument))
		return 0, false
	}
	return appID, true
}

// optionalInt parses an integer query parameter; absent means 0
func optionalInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, name)
	}
	return v, nil
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", status,
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
