package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mohammad-safakhou/podbotnik/config"
	"github.com/mohammad-safakhou/podbotnik/internal/chatbot"
	"github.com/mohammad-safakhou/podbotnik/internal/runtime"
	"github.com/mohammad-safakhou/podbotnik/internal/source"
	"github.com/mohammad-safakhou/podbotnik/internal/store"
	"github.com/mohammad-safakhou/podbotnik/provider"
)

// Run wires the whole service and serves it: provider, chatbot, transcript
// corpus, routes. Blocks until the listener stops.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	llm, err := provider.NewProvider(provider.Groq, provider.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return err
	}
	bot := chatbot.New(llm, chatbotConfigFromApp(cfg), nil)

	rc, err := source.New().Fetch(context.Background(), cfg.Transcripts.Location)
	if err != nil {
		return err
	}
	loaded, err := bot.LoadTranscripts(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("loading transcripts: %w", err)
	}
	log.Printf("serving %d episodes from %s", loaded, cfg.Transcripts.Location)

	tel := runtime.NewTelemetry()
	tel.SetCorpusSize(bot.EpisodeCount(), bot.SegmentCount())

	RegisterRoutes(e, bot, tel, cfg.LLM.Timeout)

	if addr == "" {
		addr = cfg.Server.Address
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// RegisterRoutes mounts every service endpoint on e.
func RegisterRoutes(e *echo.Echo, bot *chatbot.Chatbot, tel *runtime.Telemetry, answerTimeout time.Duration) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"episodes": bot.EpisodeCount(),
			"segments": bot.SegmentCount(),
		})
	})
	e.GET("/metrics", echo.WrapHandler(tel.Handler()))
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"service": "podbotnik",
			"endpoints": []string{
				"GET /healthz",
				"GET /metrics",
				"GET /api/episodes",
				"POST /api/ask",
				"POST /api/search",
			},
		})
	})

	api := e.Group("/api")
	h := &AskHandler{Bot: bot, Telemetry: tel, Timeout: answerTimeout}
	h.Register(api)
}

// chatbotConfigFromApp maps service config onto the chatbot's knobs.
func chatbotConfigFromApp(cfg *config.Config) chatbot.Config {
	return chatbot.Config{
		Segments: store.SegmentConfig{
			ChunkWords:     cfg.Transcripts.ChunkWords,
			WordsPerSecond: cfg.Transcripts.WordsPerSecond,
		},
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		MaxTokens:          cfg.LLM.MaxTokens,
		MaxContextSegments: cfg.Retrieval.MaxContextSegments,
		SearchResults:      cfg.Retrieval.SearchResults,
	}
}
