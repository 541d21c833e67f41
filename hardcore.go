package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bburg/bsquared-dev/internal/content"
	"github.com/bburg/bsquared-dev/internal/metrics"
	"github.com/bburg/bsquared-dev/internal/typewriter"
)

// introCharDelay matches the hero typing animation: a steady 40ms per
// character with no jitter and no trailing pause.
const introCharDelay = 40 * time.Millisecond

const wsWriteTimeout = 5 * time.Second

// script returns the lines and pacing for a named typewriter script.
func (s *server) script(name string) ([]string, typewriter.Timing, bool) {
	switch name {
	case "boot":
		return content.BootScript(), s.cfg.Typewriter.Timing(), true
	case "intro":
		return []string{s.site.Profile.Intro}, typewriter.Timing{BaseDelay: introCharDelay}, true
	}
	return nil, typewriter.Timing{}, false
}

// sequencer creates a fresh, never-run sequencer for every viewer.
func (s *server) sequencer(name string) (*typewriter.Sequencer, bool) {
	lines, timing, ok := s.script(name)
	if !ok {
		return nil, false
	}
	return typewriter.New(lines,
		typewriter.WithTiming(timing),
		typewriter.WithClock(s.clock),
		typewriter.WithRand(s.rand),
	), true
}

func (s *server) setupTypewriterRoutes(r *gin.Engine) {
	r.GET("/hardcore", func(c *gin.Context) {
		c.HTML(http.StatusOK, "hardcore.html", gin.H{
			"title":    "Hardcore",
			"art":      content.ASCIIArt,
			"teaser":   HardcoreTeaser,
			"host":     hostOf(s.site.Profile.URL),
			"github":   githubURL(s.site),
			"fallback": content.BootScript(),
		})
	})

	r.GET("/typewriter/:script/stream", s.streamTypewriter)
	r.GET("/typewriter/:script/ws", s.websocketTypewriter)
}

// streamTypewriter plays a script as server-sent events. The browser closing
// the page cancels the request context, which stops the pending timer.
func (s *server) streamTypewriter(c *gin.Context) {
	name := c.Param("script")
	seq, ok := s.sequencer(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown script"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	start := time.Now()
	finish := s.metrics.PlaybackStarted(name, "sse")

	err := seq.Run(ctx, func(snap typewriter.Snapshot) error {
		c.SSEvent("snapshot", snap)
		c.Writer.Flush()
		return nil
	})
	s.finishPlayback(name, "sse", start, err, finish)
}

// websocketTypewriter plays a script over a WebSocket. The playback runs on
// its own goroutine while this one watches for the client going away.
func (s *server) websocketTypewriter(c *gin.Context) {
	name := c.Param("script")
	seq, ok := s.sequencer(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown script"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied with an error status
		s.logger.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	start := time.Now()
	finish := s.metrics.PlaybackStarted(name, "ws")

	pb := seq.Start(c.Request.Context(), func(snap typewriter.Snapshot) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(snap)
	})

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pb.Done():
		err = pb.Err()
		if err != nil && clientLeft(err, gone) {
			err = context.Canceled
		}
		if err == nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteTimeout))
		}
	case <-gone:
		// nil here means it finished in the same instant the client left
		if err = pb.Stop(); err != nil {
			err = context.Canceled
		}
	}
	s.finishPlayback(name, "ws", start, err, finish)
}

func (s *server) finishPlayback(script, transport string, start time.Time, err error, finish func(string)) {
	outcome := metrics.OutcomeCompleted
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeCancelled
	default:
		outcome = metrics.OutcomeFailed
	}
	finish(outcome)

	elapsed := time.Since(start)
	s.logger.Debug("typewriter playback finished",
		slog.String("script", script),
		slog.String("transport", transport),
		slog.String("outcome", outcome),
		slog.Duration("elapsed", elapsed),
	)
	if err := s.recordPlayback(script, transport, outcome, elapsed); err != nil {
		s.logger.Error("record playback", slog.Any("err", err))
	}
}

// clientLeft reports whether a failed write was caused by the viewer going
// away rather than by the server.
func clientLeft(err error, gone <-chan struct{}) bool {
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &closeErr),
		errors.Is(err, websocket.ErrCloseSent),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNRESET):
		return true
	}
	select {
	case <-gone:
		return true
	default:
		return false
	}
}

// hostOf returns the host part of the site URL for the terminal title bar.
func hostOf(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return "localhost"
	}
	return u.Host
}

func githubURL(site *content.Site) string {
	for _, l := range site.Links.Social {
		if l.IconName() == "github" {
			return l.URL
		}
	}
	return ""
}
