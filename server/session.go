package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
)

// ============================================================================
// WEBSOCKET SESSION
// ============================================================================

// Message types sent by the browser.
const (
	msgSite  = "site"
	msgRange = "range"
)

var errBadMessage = errors.New("bad message")

// clientMessage is a control change sent by the browser.
type clientMessage struct {
	Type string   `json:"type"`
	Site string   `json:"site,omitempty"`
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
}

// serverMessage carries either a rebuilt chart or a rejection.
type serverMessage struct {
	Chart     dashboard.ChartID    `json:"chart,omitempty"`
	Spec      *engine.ChartSpec    `json:"spec,omitempty"`
	Selection *dashboard.Selection `json:"selection,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// event converts a message into a control event. A range message may
// carry one bound; the other keeps its current value.
func (m clientMessage) event(cur dashboard.Selection) (dashboard.Event, error) {
	switch m.Type {
	case msgSite:
		return dashboard.SiteChanged{Site: m.Site}, nil
	case msgRange:
		if m.Low == nil && m.High == nil {
			return nil, fmt.Errorf("%w: range message needs low or high", errBadMessage)
		}
		r := cur.Payload
		if m.Low != nil {
			r.Low = *m.Low
		}
		if m.High != nil {
			r.High = *m.High
		}
		return dashboard.RangeChanged{Range: r}, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", errBadMessage, m.Type)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.V(1).Info("websocket handshake failed", "error", err.Error())
		return
	}
	defer conn.CloseNow()

	s.sessions.Inc()
	defer s.sessions.Dec()

	log := s.log.WithValues("session", uuid.NewString())
	log.V(1).Info("session opened", "remote", r.RemoteAddr)

	ctx := r.Context()
	display := dashboard.DisplayFunc(func(ctx context.Context, chart dashboard.ChartID, spec engine.ChartSpec) error {
		return wsjson.Write(ctx, conn, serverMessage{Chart: chart, Spec: &spec})
	})
	ctrl := dashboard.NewController(s.table, s.options, display, log.WithName("dashboard"),
		dashboard.WithMetrics(s.metrics), dashboard.WithEngineOptions(s.engineOpts...))

	if err := ctrl.Start(ctx); err != nil {
		log.Error(err, "initial render")
		return
	}

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.V(1).Info("session closed")
			default:
				if ctx.Err() == nil {
					log.V(1).Info("session read failed", "error", err.Error())
				}
			}
			return
		}

		ev, err := msg.event(ctrl.Selection())
		if err == nil {
			err = ctrl.Dispatch(ctx, ev)
		}

		var invalid *dashboard.InvalidSelectionError
		switch {
		case err == nil:
		case errors.As(err, &invalid), errors.Is(err, errBadMessage):
			sel := ctrl.Selection()
			if werr := wsjson.Write(ctx, conn, serverMessage{Error: err.Error(), Selection: &sel}); werr != nil {
				return
			}
		default:
			log.Error(err, "dispatch failed")
			conn.Close(websocket.StatusInternalError, "dispatch failed")
			return
		}
	}
}
