package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/justinas/alice"

	"github.com/theirongolddev/salesboard/internal/dashboard"
)

const maxBodyBytes = 1 << 20

// Handler returns the daemon's HTTP API.
func (s *Service) Handler() http.Handler {
	router := NewRouter(WithRoutes(
		Route{Method: http.MethodGet, Path: "/healthz", Handler: http.HandlerFunc(s.handleHealth)},
		Route{Method: http.MethodGet, Path: "/v1/status", Handler: http.HandlerFunc(s.handleStatus)},
		Route{Method: http.MethodGet, Path: "/v1/snapshot", Handler: http.HandlerFunc(s.handleSnapshot)},
		Route{Method: http.MethodGet, Path: "/v1/events", Handler: http.HandlerFunc(s.handleEvents)},
		Route{Method: http.MethodGet, Path: "/v1/stream", Handler: http.HandlerFunc(s.handleStream)},
		Route{Method: http.MethodPost, Path: "/v1/reload", Handler: http.HandlerFunc(s.handleReload)},
		Route{
			Method:      http.MethodPut,
			Path:        "/v1/selection",
			Handler:     http.HandlerFunc(s.handleSelection),
			Middlewares: []func(http.Handler) http.Handler{requireJSON},
		},
		Route{
			Method:      http.MethodPost,
			Path:        "/v1/sellers",
			Handler:     http.HandlerFunc(s.handleAddSeller),
			Middlewares: []func(http.Handler) http.Handler{requireJSON},
		},
		Route{Method: http.MethodDelete, Path: "/v1/sellers/:name", Handler: http.HandlerFunc(s.handleRemoveSeller)},
		Route{
			Method:      http.MethodPut,
			Path:        "/v1/goals/:name",
			Handler:     http.HandlerFunc(s.handleSetGoal),
			Middlewares: []func(http.Handler) http.Handler{requireJSON},
		},
	))

	return alice.New(recoverPanics(s.logger), logRequests(s.logger)).Then(router)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

// handleEvents returns the retained events, optionally only those after
// ?since=<id>.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "since must be a non-negative event id")
			return
		}
		since = n
	}

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > since {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := s.addSubscriber()
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: s.state.Snapshot()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func (s *Service) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.reload(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Service) handleSelection(w http.ResponseWriter, r *http.Request) {
	var names []string
	if !decodeBody(w, r, &names) {
		return
	}
	s.state.Select(names)
	s.observe()
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

type addSellerRequest struct {
	Name string `json:"name"`
}

func (s *Service) handleAddSeller(w http.ResponseWriter, r *http.Request) {
	var req addSellerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.state.AddSeller(req.Name); err != nil {
		writeStateError(w, err)
		return
	}
	s.observe()
	writeJSON(w, http.StatusCreated, s.state.Snapshot())
}

// handleRemoveSeller needs ?confirm=true since the API cannot prompt.
func (s *Service) handleRemoveSeller(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	c := dashboard.NeverConfirm
	if confirmed {
		c = dashboard.AlwaysConfirm
	}
	removed, err := s.state.RemoveSeller(name, c)
	if err != nil {
		writeStateError(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusConflict, "removal not confirmed (add ?confirm=true)")
		return
	}
	s.observe()
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

type setGoalRequest struct {
	Goal *float64 `json:"goal"`
}

func (s *Service) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req setGoalRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Goal == nil {
		writeError(w, http.StatusBadRequest, "missing goal")
		return
	}
	if err := s.state.SetGoal(pathParam(r, "name"), *req.Goal); err != nil {
		writeStateError(w, err)
		return
	}
	s.observe()
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeStateError maps dashboard errors to HTTP statuses.
func writeStateError(w http.ResponseWriter, err error) {
	var verr *dashboard.ValidationError
	switch {
	case errors.Is(err, dashboard.ErrUnknownSeller):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
