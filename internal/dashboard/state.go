// Package dashboard owns the mutable dashboard state: loaded records, the
// seller registry, goals and the current selection.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/pipeline"
	"github.com/theirongolddev/salesboard/internal/source"
)

// GoalStore persists goal changes. Implemented by *store.Cache.
type GoalStore interface {
	SaveGoal(seller string, goal float64) error
	DeleteGoal(seller string) error
}

// Options configures a new State.
type Options struct {
	// Goals seeds the goal map, typically from persisted storage.
	Goals map[string]float64
	// Store receives every goal change. Nil disables persistence.
	Store  GoalStore
	Logger *log.Logger
	Now    func() time.Time
}

// State is the dashboard's single owned state object. It is safe for
// concurrent use.
type State struct {
	mu sync.RWMutex

	records   []model.SaleRecord
	sellers   []string
	selection []string
	goals     map[string]float64

	source   string
	loadedAt time.Time
	lastErr  *LoadError

	// generation is bumped by BeginLoad; finished records the last generation
	// whose result was applied or discarded.
	generation uint64
	finished   uint64
	pendingKey string

	version uint64

	store  GoalStore
	logger *log.Logger
	now    func() time.Time
}

// NewState returns an empty state seeded with opts.Goals.
func NewState(opts Options) *State {
	goals := make(map[string]float64, len(opts.Goals))
	for k, v := range opts.Goals {
		if model.IsReservedName(k) {
			continue
		}
		goals[k] = v
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &State{
		goals:  goals,
		store:  opts.Store,
		logger: logger,
		now:    now,
	}
}

// Reload fetches src and applies the result. Fetch I/O runs without holding
// the lock. If another reload starts before this one finishes, this result is
// discarded.
func (s *State) Reload(ctx context.Context, src source.Source) error {
	token := s.BeginLoad(src.Key())
	res, err := src.Fetch(ctx)
	_, lerr := s.FinishLoad(token, res, err)
	if lerr != nil {
		return lerr
	}
	return nil
}

// BeginLoad marks a reload as in flight and returns its generation token.
func (s *State) BeginLoad(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.pendingKey = key
	s.version++
	return s.generation
}

// FinishLoad applies the outcome of the reload identified by token. Results
// from a superseded token are dropped and it returns false. A fetch error is
// recorded and returned as a *LoadError without touching the loaded data.
func (s *State) FinishLoad(token uint64, res source.Result, fetchErr error) (bool, *LoadError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		s.logger.Debug("discarding stale reload", "token", token, "latest", s.generation)
		return false, nil
	}
	s.finished = token
	s.version++

	if fetchErr != nil {
		s.lastErr = &LoadError{Err: fetchErr}
		return true, s.lastErr
	}

	s.records = slices.Clone(res.Records)
	s.sellers = dedupe(res.Sellers)
	s.selection = slices.Clone(s.sellers)
	s.source = s.pendingKey
	s.loadedAt = s.now()
	s.lastErr = nil

	for _, name := range s.sellers {
		if model.IsReservedName(name) {
			continue
		}
		if _, ok := s.goals[name]; ok {
			continue
		}
		s.goals[name] = 0
		if s.store != nil {
			if err := s.store.SaveGoal(name, 0); err != nil {
				s.logger.Warn("saving goal", "seller", name, "err", err)
			}
		}
	}
	return true, nil
}

// Loading reports whether the most recently started reload is still in flight.
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation != s.finished
}

// LastError returns the error of the last applied reload, or nil.
func (s *State) LastError() *LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// AddSeller registers a new seller, selects it and gives it a zero goal.
func (s *State) AddSeller(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Field: "seller", Reason: ErrEmptyName}
	}
	if model.IsReservedName(trimmed) {
		return &ValidationError{Field: "seller", Value: trimmed, Reason: ErrReservedName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.sellers, trimmed) {
		return &ValidationError{Field: "seller", Value: trimmed, Reason: ErrDuplicateSeller}
	}
	if s.store != nil {
		if err := s.store.SaveGoal(trimmed, 0); err != nil {
			return fmt.Errorf("saving goal for %s: %w", trimmed, err)
		}
	}

	s.sellers = append(s.sellers, trimmed)
	if !slices.Contains(s.selection, trimmed) {
		s.selection = append(s.selection, trimmed)
	}
	s.goals[trimmed] = 0
	s.version++
	return nil
}

// RemoveSeller drops a seller from the registry, the selection and the goal map
// after c confirms. Records for the seller stay loaded. It reports whether the
// seller was removed. The Repasse sentinel can't be removed.
func (s *State) RemoveSeller(name string, c Confirmer) (bool, error) {
	if model.IsReservedName(name) {
		return false, &ValidationError{Field: "seller", Value: name, Reason: ErrReservedName}
	}

	s.mu.RLock()
	known := slices.Contains(s.sellers, name)
	s.mu.RUnlock()
	if !known {
		return false, &ValidationError{Field: "seller", Value: name, Reason: ErrUnknownSeller}
	}

	if c == nil || !c.Confirm(fmt.Sprintf("Remove seller %q?", name)) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.sellers, name) {
		return false, &ValidationError{Field: "seller", Value: name, Reason: ErrUnknownSeller}
	}
	if s.store != nil {
		if err := s.store.DeleteGoal(name); err != nil {
			return false, fmt.Errorf("deleting goal for %s: %w", name, err)
		}
	}

	s.sellers = slices.DeleteFunc(s.sellers, func(v string) bool { return v == name })
	s.selection = slices.DeleteFunc(s.selection, func(v string) bool { return v == name })
	delete(s.goals, name)
	s.version++
	return true, nil
}

// Select replaces the selection. Names are not checked against the registry.
func (s *State) Select(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = dedupe(names)
	s.version++
}

// ToggleSelected adds name to the selection, or removes it if present.
func (s *State) ToggleSelected(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.selection, name) {
		s.selection = slices.DeleteFunc(s.selection, func(v string) bool { return v == name })
	} else {
		s.selection = append(s.selection, name)
	}
	s.version++
}

// SelectAll selects every known seller.
func (s *State) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = slices.Clone(s.sellers)
	s.version++
}

// SetGoal sets the unit goal for a known, non-Repasse seller.
func (s *State) SetGoal(name string, goal float64) error {
	if model.IsReservedName(name) {
		return &ValidationError{Field: "goal", Value: name, Reason: ErrReservedName}
	}
	if math.IsNaN(goal) || math.IsInf(goal, 0) || goal < 0 {
		return &ValidationError{Field: "goal", Value: name, Reason: ErrInvalidGoal}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.sellers, name) {
		return &ValidationError{Field: "goal", Value: name, Reason: ErrUnknownSeller}
	}
	if s.store != nil {
		if err := s.store.SaveGoal(name, goal); err != nil {
			return fmt.Errorf("saving goal for %s: %w", name, err)
		}
	}
	s.goals[name] = goal
	s.version++
	return nil
}

// Goals returns a copy of the goal map.
func (s *State) Goals() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGoals(s.goals)
}

// Sellers returns a copy of the seller registry in order.
func (s *State) Sellers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sellers)
}

// Selection returns a copy of the current selection.
func (s *State) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selection)
}

// Records returns a copy of the loaded records.
func (s *State) Records() []model.SaleRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Snapshot returns an immutable copy of the state with every aggregate
// computed for the current selection.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := pipeline.FilterBySellers(s.records, s.selection)
	snap := Snapshot{
		Version:      s.version,
		Source:       s.source,
		LoadedAt:     s.loadedAt,
		Loading:      s.generation != s.finished,
		Records:      len(s.records),
		Filtered:     len(filtered),
		Sellers:      slices.Clone(s.sellers),
		Selection:    slices.Clone(s.selection),
		Goals:        cloneGoals(s.goals),
		TopSeller:    pipeline.TopSeller(filtered),
		AvgStockDays: pipeline.AverageStockDays(filtered),
		Repasse:      pipeline.AggregateRepasse(s.records),
		Summary:      pipeline.Summarize(filtered),
		SellerStats:  pipeline.AggregateSellers(filtered, s.goals),
		ModelYears:   pipeline.AggregateModelYears(filtered),
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Message()
	}
	return snap
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func cloneGoals(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
