package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Config holds the HTTP server settings.
type Config struct {
	Address        string
	BasePath       string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	BodyLimit      string // max request body, e.g. "10M"; empty means unlimited
}

// Server is the JSON API consumed by the web client.
type Server struct {
	echo    *echo.Echo
	cfg     Config
	auth    AuthService
	topics  TopicService
	reviews ReviewService
	tokens  TokenParser
	logger  *zap.Logger
	now     func() time.Time
}

// NewServer builds the echo instance and registers all routes.
func NewServer(
	cfg Config,
	auth AuthService,
	topics TopicService,
	reviews ReviewService,
	tokens TokenParser,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	s := &Server{
		echo:    e,
		cfg:     cfg,
		auth:    auth,
		topics:  topics,
		reviews: reviews,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	limiter := NewRateLimiter(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)

	s.echo.Use(middleware.Recover())
	s.echo.Use(requestLogger(s.logger))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  s.cfg.AllowedOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{headerTotalCount, headerTotalPages},
	}))

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group(s.cfg.BasePath)
	if s.cfg.BodyLimit != "" {
		api.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	}

	public := api.Group("/auth", rateLimit(limiter))
	public.POST("/signup", s.signup)
	public.POST("/login", s.login)
	public.POST("/reset-password", s.resetPassword)

	private := api.Group("", requireAuth(s.tokens), rateLimit(limiter))

	private.GET("/auth/me", s.me)
	private.PATCH("/auth/me", s.updateProfile)
	private.DELETE("/auth/account", s.deleteAccount)

	private.GET("/topics", s.listTopics)
	private.POST("/topics", s.createTopic)
	private.GET("/topics/dashboard", s.dashboard)
	private.GET("/topics/cycles", s.byCycle)
	private.GET("/topics/themes", s.byTheme)
	private.GET("/topics/themes/:slug", s.themeTopics)
	private.POST("/topics/import", s.importTopics)
	private.GET("/topics/questions/ai", s.listAIQuestions)
	private.GET("/topics/:id", s.getTopic)
	private.PUT("/topics/:id", s.updateTopic)
	private.DELETE("/topics/:id", s.deleteTopic)
	private.POST("/topics/:id/review", s.completeReview)
	private.GET("/topics/:id/review/next-question", s.nextQuestion)
	private.POST("/topics/:id/review/questions/:qid/attempts", s.answer)
	private.POST("/topics/:id/questions/ai-generate", s.generateQuestion)
	private.POST("/topics/:id/questions", s.createQuestion)
	private.PATCH("/topics/:id/questions/:qid", s.setQuestionStatus)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("address", s.cfg.Address))
		if err := s.echo.Start(s.cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")

	return nil
}
