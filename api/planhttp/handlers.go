package planhttp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Benjamin-Elon/trellis/app"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planlog"
)

const dateLayout = "2006-01-02"

// planBody is the JSON request shared by the plan, window and explain
// routes. Dates use YYYY-MM-DD.
type planBody struct {
	Plant         string  `json:"plant"`
	City          string  `json:"city"`
	Method        string  `json:"method,omitempty"`
	Year          int     `json:"year,omitempty"`
	Start         string  `json:"start,omitempty"`
	SeasonEnd     string  `json:"season_end,omitempty"`
	YieldTargetKg float64 `json:"yield_target_kg,omitempty"`
}

func (b planBody) request() (app.PlanRequest, error) {
	req := app.PlanRequest{
		Plant:         b.Plant,
		City:          b.City,
		Method:        b.Method,
		Year:          b.Year,
		YieldTargetKg: b.YieldTargetKg,
	}
	var err error
	if req.Start, err = parseDate(b.Start); err != nil {
		return req, err
	}
	if req.SeasonEnd, err = parseDate(b.SeasonEnd); err != nil {
		return req, err
	}
	return req, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func (s *Server) bind(c echo.Context) (app.PlanRequest, bool) {
	var body planBody
	if err := c.Bind(&body); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
		return app.PlanRequest{}, false
	}
	req, err := body.request()
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		return app.PlanRequest{}, false
	}
	return req, true
}

// fail maps service errors onto HTTP statuses: unknown names are 404,
// unusable configuration is 400, everything else 500.
func (s *Server) fail(c echo.Context, err error) error {
	var ce model.ConfigError
	switch {
	case errors.Is(err, app.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &ce):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		s.log.Errorf("request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) plants(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Plants())
}

func (s *Server) cities(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Cities())
}

func (s *Server) plan(c echo.Context) error {
	req, ok := s.bind(c)
	if !ok {
		return nil
	}
	sched, err := s.svc.Plan(c.Request().Context(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, sched)
}

func (s *Server) window(c echo.Context) error {
	req, ok := s.bind(c)
	if !ok {
		return nil
	}
	w, err := s.svc.Window(c.Request().Context(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (s *Server) explain(c echo.Context) error {
	req, ok := s.bind(c)
	if !ok {
		return nil
	}
	entries, err := s.svc.Explain(c.Request().Context(), req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// history filters are best effort: unparseable values do not filter.
func (s *Server) history(c echo.Context) error {
	q := planlog.LogQuery{
		Plant: c.QueryParam("plant"),
		City:  c.QueryParam("city"),
	}
	if v := c.QueryParam("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			q.Year = y
		}
	}
	if v := c.QueryParam("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.Start = t
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.End = t
		}
	}
	recs, err := s.svc.History(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}
