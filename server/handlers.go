package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/render"
)

// ============================================================================
// QUERY ENDPOINTS
// ============================================================================

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.options)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Table *engine.TableData `json:"table"`
		Text  *engine.TextData  `json:"text"`
	}{
		Table: engine.BuildSiteTable(s.table, s.engineOpts...),
		Text:  engine.BuildText(s.table),
	})
}

// handleChart serves /api/charts/{chart} as ChartSpec JSON and
// /api/charts/{chart}.{png|svg} as a rendered image.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	chart, ext := name, ""
	if e := path.Ext(name); e != "" {
		chart, ext = strings.TrimSuffix(name, e), e
	}

	sel, err := s.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	var spec engine.ChartSpec
	switch dashboard.ChartID(chart) {
	case dashboard.ChartProportion:
		spec = dashboard.ProportionChart.Build(sel, s.table, s.engineOpts...)
	case dashboard.ChartScatter:
		spec = dashboard.ScatterChart.Build(sel, s.table, s.engineOpts...)
	default:
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", chart))
		return
	}

	if ext == "" {
		writeJSON(w, http.StatusOK, spec)
		return
	}

	format, err := render.ParseFormat(ext)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, spec, format); err != nil {
		s.log.Error(err, "render chart", "chart", chart, "format", format)
		writeJSONError(w, http.StatusInternalServerError, "chart could not be rendered")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// selectionFromQuery reads site, low and high. Missing values fall back
// to the default selection; every value is checked against the options.
func (s *Server) selectionFromQuery(q url.Values) (dashboard.Selection, error) {
	sel := s.options.Default
	if site := q.Get("site"); site != "" {
		sel.Site = site
	}

	for _, b := range []struct {
		key string
		dst *float64
	}{{"low", &sel.Payload.Low}, {"high", &sel.Payload.High}} {
		raw := q.Get(b.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sel, &dashboard.InvalidSelectionError{Field: "payload " + b.key, Value: raw, Reason: "not a number"}
		}
		*b.dst = v
	}

	if err := s.options.Check(sel); err != nil {
		return sel, err
	}
	return sel, nil
}

// ============================================================================
// RESPONSES
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeError(w http.ResponseWriter, err error) {
	var invalid *dashboard.InvalidSelectionError
	if errors.As(err, &invalid) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
