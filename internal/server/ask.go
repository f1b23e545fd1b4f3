package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/podbotnik/internal/chatbot"
	"github.com/mohammad-safakhou/podbotnik/internal/runtime"
	"github.com/mohammad-safakhou/podbotnik/models"
)

// AskHandler serves question answering, raw transcript search and episode
// listing.
type AskHandler struct {
	Bot       *chatbot.Chatbot
	Telemetry *runtime.Telemetry
	// Timeout bounds one answer generation end to end.
	Timeout time.Duration
}

func (h *AskHandler) Register(g *echo.Group) {
	g.GET("/episodes", h.episodes)
	g.POST("/ask", h.ask)
	g.POST("/search", h.search)
}

func (h *AskHandler) episodes(c echo.Context) error {
	items := h.Bot.ListEpisodes()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"episodes": items,
		"count":    len(items),
	})
}

func (h *AskHandler) ask(c echo.Context) error {
	var req struct {
		Question           string `json:"question"`
		MaxContextSegments int    `json:"max_context_segments"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	started := time.Now()
	ans, err := h.Bot.AnswerQuestion(ctx, req.Question, req.MaxContextSegments)
	if err != nil {
		var gen models.ErrGeneration
		switch {
		case errors.Is(err, models.ErrInvalidQuestion):
			h.Telemetry.ObserveQuestion(runtime.OutcomeRejected, time.Since(started))
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrGenerationTimeout):
			h.Telemetry.ObserveQuestion(runtime.OutcomeTimeout, time.Since(started))
			return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
		case errors.As(err, &gen):
			h.Telemetry.ObserveQuestion(runtime.OutcomeError, time.Since(started))
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			h.Telemetry.ObserveQuestion(runtime.OutcomeError, time.Since(started))
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	outcome := runtime.OutcomeAnswered
	if ans.ContextUsed == 0 {
		outcome = runtime.OutcomeNoContext
	}
	h.Telemetry.ObserveQuestion(outcome, time.Since(started))
	return c.JSON(http.StatusOK, ans)
}

func (h *AskHandler) search(c echo.Context) error {
	var req struct {
		Query      string `json:"query"`
		MaxResults int    `json:"max_results"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	h.Telemetry.ObserveSearch()
	results := h.Bot.Search(req.Query, req.MaxResults)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": results,
		"count":   len(results),
	})
}
