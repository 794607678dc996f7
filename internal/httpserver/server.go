package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/craftwatch/craftwatch/internal/analytics"
	"github.com/craftwatch/craftwatch/internal/model"
	"github.com/craftwatch/craftwatch/internal/stats"
)

// ReportStore is the narrow persistence contract required by the HTTP API.
type ReportStore interface {
	model.ReportSink
	Path() string
}

// Server provides the HTTP API over the analytics engine.
type Server struct {
	addr      string
	analyzer  model.Analyzer
	trigger   model.CollectTrigger
	reports   ReportStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server. The collect trigger and report
// store may be nil; the matching surfaces then report unavailability.
func NewServer(addr string, analyzer model.Analyzer, trigger model.CollectTrigger, reports ReportStore) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		analyzer: analyzer,
		trigger:  trigger,
		reports:  reports,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(stats.Handler()))

	r.POST("/api/analytics/collect", s.handleCollect)
	r.GET("/api/analytics/report", s.handleReport)
	r.GET("/api/analytics/trends", s.handleTrends)
	r.GET("/api/analytics/anomalies", s.handleAnomalies)
	r.GET("/api/analytics/predictions", s.handlePredictions)
	r.GET("/api/analytics/player-behavior", s.handlePlayerBehavior)
	r.POST("/api/analytics/custom-report", s.handleCustomReport)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

func (s *Server) handleCollect(c *gin.Context) {
	if s.trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no collector configured"})
		return
	}
	if err := s.trigger.Collect(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "collection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReport(c *gin.Context) {
	hours, ok := s.queryHours(c, "hours")
	if !ok {
		return
	}
	report, err := s.analyzer.Report(hours)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.persist(report)
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleTrends(c *gin.Context) {
	hours, ok := s.queryHours(c, "hours")
	if !ok {
		return
	}
	category := model.Category(c.DefaultQuery("type", string(model.CategoryPerformance)))
	trends, err := s.analyzer.Trends(hours, category)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": category, "hours": hours, "trends": trends})
}

func (s *Server) handleAnomalies(c *gin.Context) {
	hours, ok := s.queryHours(c, "hours")
	if !ok {
		return
	}
	metric := c.DefaultQuery("metric", "tps")
	anomalies, err := s.analyzer.Anomalies(hours, metric)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if anomalies == nil {
		anomalies = []model.Anomaly{}
	}
	c.JSON(http.StatusOK, gin.H{"metric": metric, "hours": hours, "anomalies": anomalies})
}

func (s *Server) handlePredictions(c *gin.Context) {
	hoursAhead, ok := s.queryHours(c, "hours_ahead")
	if !ok {
		return
	}
	metric := c.DefaultQuery("metric", "tps")
	prediction, err := s.analyzer.Predict(hoursAhead, metric)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

func (s *Server) handlePlayerBehavior(c *gin.Context) {
	hours, ok := s.queryHours(c, "hours")
	if !ok {
		return
	}
	behavior, err := s.analyzer.PlayerBehavior(hours)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, behavior)
}

func (s *Server) handleCustomReport(c *gin.Context) {
	var req struct {
		Hours   int      `json:"hours"`
		Metrics []string `json:"metrics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Hours == 0 {
		req.Hours = model.DefaultWindowHours
	}

	report, err := s.analyzer.CustomReport(req.Hours, req.Metrics)
	if err != nil {
		s.writeError(c, err)
		return
	}
	savedAs := s.persist(report)
	c.JSON(http.StatusOK, gin.H{"report": report, "saved_as": savedAs})
}

// queryHours parses a positive integer query parameter, applying the default
// when absent. A malformed or non-positive value is a request error and no
// work is performed for that call.
func (s *Server) queryHours(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		if name == "hours_ahead" {
			return model.DefaultHorizonHours, true
		}
		return model.DefaultWindowHours, true
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return hours, true
}

func (s *Server) persist(report *model.Report) string {
	if s.reports == nil {
		return ""
	}
	if err := s.reports.Write(report); err != nil {
		// Serving the report still succeeds; the previous artifact stays.
		return ""
	}
	return s.reports.Path()
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidWindow),
		errors.Is(err, analytics.ErrInvalidHorizon),
		errors.Is(err, analytics.ErrUnknownCategory),
		errors.Is(err, analytics.ErrUnknownMetric),
		errors.Is(err, analytics.ErrUnknownSection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics processing failed"})
	}
}
