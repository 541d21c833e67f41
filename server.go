package main

import (
	"database/sql"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bburg/bsquared-dev/internal/config"
	"github.com/bburg/bsquared-dev/internal/content"
	applog "github.com/bburg/bsquared-dev/internal/log"
	"github.com/bburg/bsquared-dev/internal/metrics"
	"github.com/bburg/bsquared-dev/internal/typewriter"
)

// blurFadeDelay is the stagger between fading sections, in seconds.
const blurFadeDelay = 0.04

type server struct {
	cfg     config.Config
	site    *content.Site
	md      *content.Renderer
	db      *sql.DB
	metrics *metrics.Metrics
	logger  *slog.Logger
	mailer  mailer

	adminToken  string
	hashingSalt string

	// nil means wall-clock timers and math/rand jitter
	clock typewriter.Clock
	rand  typewriter.Rand

	upgrader websocket.Upgrader

	// background visitor writes
	wg sync.WaitGroup
}

func newServer(cfg config.Config, site *content.Site, db *sql.DB, m *metrics.Metrics) (*server, error) {
	md, err := content.NewRenderer(0)
	if err != nil {
		return nil, err
	}
	s := &server{
		cfg:     cfg,
		site:    site,
		md:      md,
		db:      db,
		metrics: m,
		logger:  applog.WithComponent("server"),
		mailer:  &smtpMailer{cfg: cfg.SMTP},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if err := s.initAdmin(); err != nil {
		return nil, err
	}
	return s, nil
}

// router builds the gin engine with every route registered.
func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetFuncMap(s.templateFuncs())
	r.LoadHTMLGlob(s.cfg.Paths.Templates)

	r.Static("/images", s.cfg.Paths.Images)
	r.Static("/static", s.cfg.Paths.Static)

	r.Use(s.visitorTrackingMiddleware())

	s.setupRoutes(r)
	s.setupTypewriterRoutes(r)
	s.setupContactRoutes(r)
	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "not-found.html", gin.H{"title": "Not Found"})
	})
	return r
}

func (s *server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": s.md.MustRender,
		"initial":  content.Initial,
		// fade returns the CSS animation delay for the step-th block and the
		// i-th item within it.
		"fade": func(step, i int) string {
			return fmt.Sprintf("%.2fs", blurFadeDelay*float64(step)+float64(i)*0.05)
		},
		"year": func() int { return time.Now().Year() },
	}
}

// requestLogger logs one line per request through slog.
func (s *server) requestLogger() gin.HandlerFunc {
	l := applog.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// wait blocks until background writes are done.
func (s *server) wait() { s.wg.Wait() }
