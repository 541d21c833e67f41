// admin.go - privacy-conscious visitor tracking and the admin area
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	applog "github.com/bburg/bsquared-dev/internal/log"
)

// visitorRetention is how long visitor rows are kept.
const visitorRetention = 365 * 24 * time.Hour

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type PageStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type PlaybackStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	// mean over completed boot playbacks
	AvgCompletedMs int64 `json:"avg_completed_ms"`
}

type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TopPages         []PageStat      `json:"top_pages"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	Playbacks        PlaybackStats   `json:"playbacks"`
}

// initAdmin creates the session token and the IP hashing salt. Both live only
// for the lifetime of the process.
func (s *server) initAdmin() error {
	var err error
	if s.adminToken, err = generateAdminToken(); err != nil {
		return err
	}
	if s.hashingSalt, err = generateAdminToken(); err != nil {
		return err
	}

	l := applog.WithComponent("admin")
	l.Info("admin access available", slog.String("path", "/admin/login"))
	if gin.Mode() == gin.DebugMode {
		l.Debug("admin token (dev only)", slog.String("token", s.adminToken))
	}
	l.Info("visitor tracking enabled with hashed IP addresses")
	return nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP)
func (s *server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// untrackedPrefixes are never recorded as visits.
var untrackedPrefixes = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy",
	"/typewriter/", "/sections/", "/healthz", "/metrics", "/api/",
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		c.Next()

		// only count pages that exist
		route := c.FullPath()
		if route == "" || c.Writer.Status() >= 400 {
			return
		}
		s.metrics.PageView(route)

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.trackVisitorPrivacy(ip, ua, path)
		}()
	}
}

// Track visitor with privacy protections
func (s *server) trackVisitorPrivacy(ip, userAgent, path string) {
	_, err := s.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, ts)
		VALUES (?, ?, ?, ?)
	`, s.hashIP(ip), userAgent, path, time.Now().UTC().Unix())
	if err != nil {
		s.logger.Error("recording visitor", slog.Any("err", err))
	}
}

func (s *server) recordPlayback(script, transport, outcome string, elapsed time.Duration) error {
	_, err := s.db.Exec(`
		INSERT INTO playbacks (script, transport, outcome, duration_ms, ts)
		VALUES (?, ?, ?, ?, ?)
	`, script, transport, outcome, elapsed.Milliseconds(), time.Now().UTC().Unix())
	return err
}

// Cleanup old visitor data for privacy compliance
func (s *server) cleanupOldVisitorData() int64 {
	cutoff := time.Now().UTC().Add(-visitorRetention).Unix()
	result, err := s.db.Exec(`DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		s.logger.Error("cleaning up old visitor data", slog.Any("err", err))
		return 0
	}

	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		s.logger.Info("privacy cleanup", slog.Int64("removed", rowsDeleted))
	}
	return rowsDeleted
}

// Get comprehensive admin statistics
func (s *server) getAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()
	weekAgo := now.Add(-7 * 24 * time.Hour).Unix()

	counts := []struct {
		query string
		args  []any
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM visitors", nil, &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil, &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM visitors WHERE ts >= ?", []any{startOfDay}, &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE ts >= ?", []any{weekAgo}, &stats.VisitorsThisWeek},
		{"SELECT COUNT(*) FROM playbacks", nil, &stats.Playbacks.Total},
		{"SELECT COUNT(*) FROM playbacks WHERE outcome = 'completed'", nil, &stats.Playbacks.Completed},
		{"SELECT COUNT(*) FROM playbacks WHERE outcome = 'cancelled'", nil, &stats.Playbacks.Cancelled},
		{"SELECT CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER) FROM playbacks WHERE outcome = 'completed' AND script = 'boot'", nil, &stats.Playbacks.AvgCompletedMs},
	}
	for _, q := range counts {
		if err := s.db.QueryRow(q.query, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", q.query, err)
		}
	}

	// Top pages by views
	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			continue
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.RecentVisitors, err = s.recentVisitors(50)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *server) recentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", s.adminToken, 3600*24, "/", "", gin.Mode() == gin.ReleaseMode, true)
			s.logger.Info("admin login successful", slog.String("from", s.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		s.logger.Warn("failed admin login attempt", slog.String("from", s.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
		s.logger.Info("admin logout", slog.String("from", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			s.logger.Error("loading admin stats", slog.Any("err", err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.recentVisitors(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"title":    "Visitors",
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint - run the retention cleanup now
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed := s.cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup finished", "removed": removed})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Set headers for file download
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")

		s.logger.Info("admin stats exported", slog.String("by", s.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	if s.cfg.Metrics.Enabled && s.metrics != nil {
		r.GET("/metrics", s.adminAuthMiddleware(), gin.WrapH(s.metrics.Handler()))
	}
}
