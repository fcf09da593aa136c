package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/feedwire/newsdesk/internal/config"
	"github.com/feedwire/newsdesk/internal/curation"
	"github.com/feedwire/newsdesk/internal/feed"
	"github.com/feedwire/newsdesk/internal/logger"
	"github.com/feedwire/newsdesk/internal/middleware"
	"github.com/feedwire/newsdesk/internal/models"
	"github.com/feedwire/newsdesk/internal/query"
	"github.com/feedwire/newsdesk/internal/sources"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	config     *config.Config
	aggregator *feed.Aggregator
	engine     *query.Engine
	sources    sources.Repository
	manager    *curation.Manager
	validator  *middleware.Validator
}

func NewHandlers(cfg *config.Config, repo sources.Repository, manager *curation.Manager) *Handlers {
	return &Handlers{
		config:     cfg,
		aggregator: feed.NewAggregator(cfg.FetchTimeout),
		engine:     query.NewEngine(cfg.MinPageSize, cfg.MaxPageSize),
		sources:    repo,
		manager:    manager,
		validator:  middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetArticles handles GET /api/v1/articles: one full aggregation
// round over the enabled sources followed by the query stage. The
// caller's seq parameter is echoed back so the UI can discard stale
// responses when a newer request has already been issued
// (last-request-wins).
func (h *Handlers) GetArticles(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
	seq, _ := strconv.ParseInt(c.Query("seq", "0"), 10, 64)
	includeDefaults := c.Query("includeDefault", "true") != "false"

	customAPI := c.Query("customApi")
	if customAPI != "" && !sources.IsValidHTTPURL(customAPI) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": sources.ErrInvalidURL.Error(),
		})
	}
	if customAPI == "" {
		active, err := h.sources.Active(c.Context())
		if err != nil {
			logger.Get().Error().Err(err).Msg("Error reading active custom source")
		} else {
			customAPI = active
		}
	}

	opts := feed.Options{CustomAPIURL: customAPI}
	if includeDefaults {
		opts.Feeds = feed.Defaults()
	}
	articles, reports := h.aggregator.Aggregate(c.Context(), opts)

	result := h.engine.Run(articles, query.Params{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Sort:     c.Query("sort", query.SortNewest),
		Page:     page,
		PageSize: pageSize,
	})

	return c.JSON(fiber.Map{
		"articles":         result.Articles,
		"total":            result.Total,
		"page":             result.Page,
		"pageSize":         result.PageSize,
		"availableSources": result.AvailableSources,
		"sourceCounts":     result.SourceCounts,
		"sources":          reports,
		"seq":              seq,
	})
}

// GetCategories handles GET /api/v1/categories
func (h *Handlers) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": feed.Categories(),
	})
}

type addSourceRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

// ListSources handles GET /api/v1/sources
func (h *Handlers) ListSources(c *fiber.Ctx) error {
	urls, err := h.sources.List(c.Context())
	if err != nil {
		return err
	}
	active, err := h.sources.Active(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"sources": urls,
		"active":  active,
	})
}

// AddSource handles POST /api/v1/sources
func (h *Handlers) AddSource(c *fiber.Ctx) error {
	var req addSourceRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	if err := h.sources.Add(c.Context(), req.URL); err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": req.URL,
	})
}

// RemoveSource handles DELETE /api/v1/sources
func (h *Handlers) RemoveSource(c *fiber.Ctx) error {
	var req addSourceRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	if err := h.sources.Remove(c.Context(), req.URL); err != nil {
		return h.domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type setActiveRequest struct {
	URL string `json:"url" validate:"omitempty,http_url"`
}

// SetActiveSource handles PUT /api/v1/sources/active. An empty URL
// clears the active selection.
func (h *Handlers) SetActiveSource(c *fiber.Ctx) error {
	var req setActiveRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	if err := h.sources.SetActive(c.Context(), req.URL); err != nil {
		return h.domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"active": req.URL,
	})
}

type selectRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url" validate:"required,http_url"`
	ImageURL    string     `json:"imageUrl"`
	SourceName  string     `json:"sourceName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Category    string     `json:"category"`
}

// SelectArticle handles POST /api/v1/curation/:session/select
func (h *Handlers) SelectArticle(c *fiber.Ctx) error {
	var req selectRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	session := h.manager.Session(c.Params("session"))
	err := session.Select(models.Article{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		SourceName:  req.SourceName,
		PublishedAt: req.PublishedAt,
		Category:    req.Category,
	})
	if err != nil {
		return h.domainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session.State())
}

type deselectRequest struct {
	URL string `json:"url" validate:"required"`
}

// DeselectArticle handles DELETE /api/v1/curation/:session/select
func (h *Handlers) DeselectArticle(c *fiber.Ctx) error {
	var req deselectRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	session := h.manager.Session(c.Params("session"))
	if err := session.Deselect(req.URL); err != nil {
		return h.domainError(c, err)
	}
	return c.JSON(session.State())
}

// GetSession handles GET /api/v1/curation/:session
func (h *Handlers) GetSession(c *fiber.Ctx) error {
	return c.JSON(h.manager.Session(c.Params("session")).State())
}

type summarizeRequest struct {
	Backend string `json:"backend" validate:"required"`
}

// Summarize handles POST /api/v1/curation/:session/summarize
func (h *Handlers) Summarize(c *fiber.Ctx) error {
	var req summarizeRequest
	if !h.validator.BindAndValidate(c, &req) {
		return nil
	}

	backend, err := h.manager.Backend(req.Backend)
	if err != nil {
		return h.domainError(c, err)
	}

	session := h.manager.Session(c.Params("session"))
	summaries, err := session.Summarize(c.Context(), backend)
	if errors.Is(err, curation.ErrNoSelection) {
		return h.domainError(c, err)
	}
	if err != nil {
		// Backend unreachable or unusable response: actionable retry
		// prompt rather than a generic failure.
		logger.Get().Error().Err(err).Str("backend", req.Backend).Msg("Summarization failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Summarization failed, please retry",
			"retry": true,
		})
	}

	return c.JSON(fiber.Map{
		"summaries": summaries,
	})
}

// ApproveSummary handles POST /api/v1/curation/:session/summaries/:index/approve
func (h *Handlers) ApproveSummary(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Summary index must be an integer",
		})
	}

	session := h.manager.Session(c.Params("session"))
	summary, err := session.Approve(c.Context(), index, h.manager.Publisher())
	if err != nil {
		return h.domainError(c, err)
	}
	return c.JSON(summary)
}

// RejectSummary handles POST /api/v1/curation/:session/summaries/:index/reject
func (h *Handlers) RejectSummary(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Summary index must be an integer",
		})
	}

	session := h.manager.Session(c.Params("session"))
	if err := session.Reject(index); err != nil {
		return h.domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// domainError maps sentinel errors onto HTTP statuses. Anything
// unrecognized bubbles up to the app-level error handler as a 500.
func (h *Handlers) domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sources.ErrInvalidURL),
		errors.Is(err, curation.ErrDuplicateSelection):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, sources.ErrNotFound),
		errors.Is(err, curation.ErrNotSelected),
		errors.Is(err, curation.ErrSummaryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, curation.ErrSelectionFull),
		errors.Is(err, curation.ErrNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, curation.ErrNoSelection),
		errors.Is(err, curation.ErrUnknownBackend):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, curation.ErrNoSummaries):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
			"retry": true,
		})
	default:
		return err
	}
}
