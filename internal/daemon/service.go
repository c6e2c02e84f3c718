// Package daemon serves the dashboard state over HTTP and SSE and reloads it
// on a schedule.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/source"
)

const (
	defaultAddr         = "127.0.0.1:8787"
	defaultInterval     = 60 * time.Second
	minInterval         = 5 * time.Second
	defaultEventsBuffer = 200
	shutdownTimeout     = 5 * time.Second
)

// Config controls the daemon runtime.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	Logger       *log.Logger
}

// Delta captures KPI changes between two snapshots.
type Delta struct {
	Records        int     `json:"records"`
	Units          int     `json:"units"`
	Revenue        float64 `json:"revenue"`
	NetProfit      float64 `json:"net_profit"`
	AvgStockDays   float64 `json:"avg_stock_days"`
	RepasseUnits   int     `json:"repasse_units"`
	RepasseRevenue float64 `json:"repasse_revenue"`
	TopSeller      string  `json:"top_seller,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Records == 0 &&
		d.Units == 0 &&
		d.Revenue == 0 &&
		d.NetProfit == 0 &&
		d.AvgStockDays == 0 &&
		d.RepasseUnits == 0 &&
		d.RepasseRevenue == 0 &&
		d.TopSeller == ""
}

// Event is emitted whenever the observed dashboard changes.
type Event struct {
	ID        int64              `json:"id"`
	Type      string             `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Snapshot  dashboard.Snapshot `json:"snapshot"`
	Delta     Delta              `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt         time.Time `json:"started_at"`
	LastReloadAt      time.Time `json:"last_reload_at"`
	ReloadIntervalSec int       `json:"reload_interval_sec"`
	ReloadCount       int       `json:"reload_count"`
	Source            string    `json:"source"`
	LastError         string    `json:"last_error,omitempty"`
	EventCount        int       `json:"event_count"`
	SubscriberCount   int       `json:"subscriber_count"`
	Records           int       `json:"records"`
	Sellers           int       `json:"sellers"`
	Units             int       `json:"units"`
	Revenue           float64   `json:"revenue"`
}

// Service owns the scheduled reloads and the event stream for a State.
type Service struct {
	cfg    Config
	state  *dashboard.State
	src    source.Source
	logger *log.Logger

	reloadMu  sync.Mutex
	observeMu sync.Mutex // held across snapshot, diff and publish

	mu           sync.RWMutex
	startedAt    time.Time
	lastReloadAt time.Time
	reloadCount  int
	lastError    string

	hasSnapshot bool
	snapshot    dashboard.Snapshot

	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service serving state, reloading it from src.
func New(cfg Config, state *dashboard.State, src source.Source) *Service {
	if cfg.Interval < minInterval {
		cfg.Interval = defaultInterval
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = defaultEventsBuffer
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		cfg:       cfg,
		state:     state,
		src:       src,
		logger:    logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts the HTTP server and the reload schedule. It blocks until ctx is
// canceled or the server fails.
func (s *Service) Run(ctx context.Context) error {
	s.reload(ctx)

	sched := gocron.NewScheduler(time.Local)
	_, err := sched.Every(s.cfg.Interval).SingletonMode().WaitForSchedule().Do(func() {
		s.reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling reload: %w", err)
	}
	sched.StartAsync()
	defer sched.Stop()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	s.logger.Info("daemon started", "addr", s.cfg.Addr, "interval", s.cfg.Interval, "source", s.src.Key())
	err = g.Wait()
	s.logger.Info("daemon stopped")
	return err
}

// reload fetches the source into the state and publishes any change.
// Concurrent reloads are serialized.
func (s *Service) reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	err := s.state.Reload(ctx, s.src)

	s.mu.Lock()
	s.lastReloadAt = time.Now()
	s.reloadCount++
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("reload failed", "source", s.src.Key(), "err", err)
	} else {
		s.logger.Debug("reloaded", "source", s.src.Key())
	}
	s.observe()
	return err
}

// observe compares the current state against the last published snapshot and
// emits an event when anything visible changed.
// Calls are serialized so each delta is taken against the previous event.
func (s *Service) observe() {
	s.observeMu.Lock()
	defer s.observeMu.Unlock()

	snap := s.state.Snapshot()

	s.mu.Lock()
	prev := s.snapshot
	had := s.hasSnapshot
	s.snapshot = snap
	s.hasSnapshot = true
	s.mu.Unlock()

	if !had {
		s.publishEvent(Event{Type: "snapshot", Timestamp: time.Now(), Snapshot: snap})
		return
	}

	delta := diffSnapshots(prev, snap)
	if delta.isZero() && sameRegistry(prev, snap) && prev.LastError == snap.LastError {
		return
	}
	s.publishEvent(Event{Type: "kpi_delta", Timestamp: time.Now(), Snapshot: snap, Delta: delta})
}

func diffSnapshots(prev, curr dashboard.Snapshot) Delta {
	d := Delta{
		Records:        curr.Records - prev.Records,
		Units:          curr.Summary.Units - prev.Summary.Units,
		Revenue:        curr.Summary.Revenue - prev.Summary.Revenue,
		NetProfit:      curr.Summary.NetProfit - prev.Summary.NetProfit,
		AvgStockDays:   curr.AvgStockDays - prev.AvgStockDays,
		RepasseUnits:   curr.Repasse.Units - prev.Repasse.Units,
		RepasseRevenue: curr.Repasse.Revenue - prev.Repasse.Revenue,
	}
	if curr.TopSeller.Name != prev.TopSeller.Name {
		d.TopSeller = curr.TopSeller.Name
	}
	return d
}

func sameRegistry(a, b dashboard.Snapshot) bool {
	return slices.Equal(a.Sellers, b.Sellers) &&
		slices.Equal(a.Selection, b.Selection) &&
		maps.Equal(a.Goals, b.Goals)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	// Sends happen under the lock so removeSubscriber cannot close a channel
	// mid-send. Slow subscribers miss events rather than block publishing.
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	snap := s.state.Snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:         s.startedAt,
		LastReloadAt:      s.lastReloadAt,
		ReloadIntervalSec: int(s.cfg.Interval.Seconds()),
		ReloadCount:       s.reloadCount,
		Source:            s.src.Key(),
		LastError:         s.lastError,
		EventCount:        len(s.events),
		SubscriberCount:   len(s.subs),
		Records:           snap.Records,
		Sellers:           len(snap.Sellers),
		Units:             snap.Summary.Units,
		Revenue:           snap.Summary.Revenue,
	}
}

func (s *Service) addSubscriber() (int, chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	ch := make(chan Event, 16)
	s.subs[id] = ch
	return id, ch
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
