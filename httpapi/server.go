// Package httpapi hosts the dispatch engine over HTTP. The envelope shape is
// the engine's; handlers only translate transport concerns.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/rengenols/dispatch/dispatch"
)

// Server exposes the distribution endpoints:
//
//	POST /api/distribute/          run a distribution
//	GET  /api/distribute/          preview (counts only)
//	GET  /api/distribute/preview/  preview (counts only)
//	GET  /api/dashboard/stats/     backlog statistics
//	GET  /metrics                  Prometheus scrape surface
type Server struct {
	engine  *dispatch.Engine
	studies dispatch.StudyReader
	doctors dispatch.DoctorReader
	echo    *echo.Echo
}

// New builds the server. registry may be nil to omit /metrics.
func New(engine *dispatch.Engine, studies dispatch.StudyReader, doctors dispatch.DoctorReader, registry *prometheus.Registry) *Server {
	s := &Server{
		engine:  engine,
		studies: studies,
		doctors: doctors,
		echo:    echo.New(),
	}
	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())

	api := s.echo.Group("/api")
	api.POST("/distribute/", s.distribute)
	api.GET("/distribute/", s.preview)
	api.GET("/distribute/preview/", s.preview)
	api.GET("/dashboard/stats/", s.dashboardStats)
	if registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
	return s
}

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	logrus.Infof("http host listening on %s", addr)
	return s.echo.Start(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) distribute(c echo.Context) error {
	env, err := s.engine.Distribute(c.Request().Context())
	if err != nil {
		var pf *dispatch.PersistenceFailure
		if errors.As(err, &pf) {
			// Degraded run: the envelope is still the contract.
			return c.JSON(http.StatusOK, env)
		}
		logrus.Errorf("distribute: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   err.Error(),
			"message": "distribution run failed",
		})
	}
	return c.JSON(http.StatusOK, env)
}

func (s *Server) preview(c echo.Context) error {
	res, err := s.engine.Preview(c.Request().Context())
	if err != nil {
		logrus.Errorf("preview: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   err.Error(),
			"message": "preview failed",
		})
	}
	return c.JSON(http.StatusOK, res)
}

// DashboardStats is the backlog summary for the dashboard.
type DashboardStats struct {
	PendingStudies   int `json:"pending_studies"`
	AvailableDoctors int `json:"available_doctors"`
	CitoStudies      int `json:"cito_studies"`
	AsapStudies      int `json:"asap_studies"`
	NormalStudies    int `json:"normal_studies"`
}

func (s *Server) dashboardStats(c echo.Context) error {
	ctx := c.Request().Context()
	records, err := s.studies.PendingStudies(ctx)
	if err != nil {
		logrus.Errorf("dashboard stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	shifts, err := s.doctors.DoctorsOnShift(ctx, s.engine.RunDate())
	if err != nil {
		logrus.Errorf("dashboard stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	stats := DashboardStats{
		PendingStudies:   len(records),
		AvailableDoctors: len(shifts),
	}
	for _, rec := range records {
		switch dispatch.ParsePriority(rec.Priority) {
		case dispatch.PriorityCito:
			stats.CitoStudies++
		case dispatch.PriorityAsap:
			stats.AsapStudies++
		default:
			stats.NormalStudies++
		}
	}
	return c.JSON(http.StatusOK, stats)
}
