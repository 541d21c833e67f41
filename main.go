package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/bburg/bsquared-dev/internal/config"
	"github.com/bburg/bsquared-dev/internal/content"
	applog "github.com/bburg/bsquared-dev/internal/log"
	"github.com/bburg/bsquared-dev/internal/metrics"
)

func main() {
	configPath := flag.String("config", "site.yaml", "optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, File: cfg.Logging.File})
	defer applog.Close()
	logger := applog.WithComponent("main")

	gin.SetMode(cfg.Server.Mode)
	for _, w := range startupWarnings(cfg) {
		logger.Warn(w)
	}

	site, err := content.Load(cfg.Paths.Data)
	if err != nil {
		return err
	}
	db, err := openDB(cfg.Paths.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newServer(cfg, site, db, metrics.New())
	if err != nil {
		return err
	}
	go s.cleanupOldVisitorData()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// streams derive from baseCtx so shutdown cancels every running playback
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelStreams)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr), slog.String("mode", cfg.Server.Mode))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	s.wait()
	return err
}

// startupWarnings lists settings that work but should be fixed before going live.
func startupWarnings(cfg config.Config) []string {
	var warnings []string
	if cfg.DefaultAdmin {
		warnings = append(warnings, "using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	if !cfg.SMTPReady() {
		warnings = append(warnings, "SMTP not configured; contact form messages will fail to send")
	}
	return warnings
}

// setupRoutes registers the portfolio pages.
func (s *server) setupRoutes(r *gin.Engine) {
	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", s.pageData(gin.H{
			"title": s.site.Profile.Name,
		}))
	})

	// HTMX section fragments
	r.GET("/sections/:name", func(c *gin.Context) {
		name := c.Param("name")
		switch name {
		case "work", "education", "skills", "projects":
		default:
			c.String(http.StatusNotFound, "unknown section")
			return
		}
		c.HTML(http.StatusOK, "section-"+name+".html", s.pageData(nil))
	})

	r.GET("/blog", func(c *gin.Context) {
		c.HTML(http.StatusOK, "blog.html", s.pageData(gin.H{
			"title": "Blog",
			"blurb": BlogBlurb,
			"posts": s.site.Blog.Posts,
		}))
	})

	r.GET("/blog/:slug", func(c *gin.Context) {
		post, ok := s.site.Post(c.Param("slug"))
		if !ok {
			c.HTML(http.StatusNotFound, "not-found.html", gin.H{"title": "Not Found"})
			return
		}
		c.HTML(http.StatusOK, "blog-post.html", s.pageData(gin.H{
			"title": post.Title,
			"post":  post,
		}))
	})

	r.GET("/api/content", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.site)
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// pageData merges the shared template data with page specific values.
func (s *server) pageData(extra gin.H) gin.H {
	data := gin.H{
		"site":          s.site,
		"profile":       s.site.Profile,
		"firstName":     s.site.FirstName(),
		"mainProjects":  s.site.MainProjects(),
		"concepts":      s.site.ConceptProjects(),
		"projectsBlurb": ProjectsBlurb,
		"conceptsBlurb": ConceptsBlurb,
		"contactBlurb":  ContactBlurb,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
