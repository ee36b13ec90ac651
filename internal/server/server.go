package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/chat"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/providers"
	"github.com/hariganeshs/Vynix/internal/usage"
)

// Generator produces chat responses. *chat.Engine satisfies it.
type Generator interface {
	Generate(ctx context.Context, req chat.Request) (chat.Result, error)
}

// UsageReader answers usage summary queries. *usage.Tracker satisfies it; nil
// disables the usage endpoint.
type UsageReader interface {
	Summary(ctx context.Context) ([]usage.Summary, error)
}

// Server is the vynix HTTP API.
type Server struct {
	cfg    config.Config
	engine Generator
	cache  *cache.Cache
	usage  UsageReader
	log    *zap.Logger
	router *gin.Engine
}

// New creates a Server wired with all dependencies.
func New(cfg config.Config, engine Generator, c *cache.Cache, u UsageReader, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:    cfg,
		engine: engine,
		cache:  c,
		usage:  u,
		log:    log,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())

	s.router.GET("/healthz", s.handleHealth)
	api := s.router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/models", s.handleModels)
		api.GET("/cache/stats", s.handleCacheStats)
		api.POST("/cache/clear", s.handleCacheClear)
		api.POST("/cache/cleanup", s.handleCacheCleanup)
		api.GET("/usage", s.handleUsage)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down gracefully when ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("vynix listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// chatRequest is the POST /api/chat body. Model is a pointer so an absent
// model and an explicit empty-string model are distinguishable.
type chatRequest struct {
	Provider string          `json:"provider"`
	Model    *string         `json:"model"`
	Prompt   string          `json:"prompt"`
	Context  []cache.Message `json:"context"`
}

type chatResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Tokens    int    `json:"tokens"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Cached    bool   `json:"cached"`
	ElapsedMs int64  `json:"elapsedMs"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	if req.Provider == "" {
		req.Provider = s.cfg.Provider
	}
	if req.Model == nil && s.cfg.Model != "" {
		model := s.cfg.Model
		req.Model = &model
	}

	result, err := s.engine.Generate(c.Request.Context(), chat.Request{
		Provider: req.Provider,
		Model:    req.Model,
		Prompt:   req.Prompt,
		Context:  req.Context,
	})
	if err != nil {
		s.log.Error("generation failed", zap.String("provider", req.Provider), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		ID:        result.Payload.ID,
		Content:   result.Payload.Content,
		Tokens:    result.Payload.Tokens,
		Provider:  result.Payload.Provider,
		Model:     result.Payload.Model,
		Cached:    result.Cached,
		ElapsedMs: result.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": providers.Names})
}

func (s *Server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.GetStats())
}

func (s *Server) handleCacheClear(c *gin.Context) {
	s.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleCacheCleanup(c *gin.Context) {
	s.cache.Cleanup()
	c.JSON(http.StatusOK, gin.H{"status": "swept"})
}

func (s *Server) handleUsage(c *gin.Context) {
	if s.usage == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usage tracking is not enabled"})
		return
	}
	summaries, err := s.usage.Summary(c.Request.Context())
	if err != nil {
		s.log.Error("usage summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []usage.Summary{}
	}
	c.JSON(http.StatusOK, summaries)
}
