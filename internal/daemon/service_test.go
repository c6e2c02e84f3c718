package daemon

import (
	"context"
	"io"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/source"
)

type stubSource struct {
	mu  sync.Mutex
	res source.Result
	err error
}

func (s *stubSource) Key() string { return "stub" }

func (s *stubSource) Fetch(context.Context) (source.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res, s.err
}

func (s *stubSource) set(res source.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res, s.err = res, err
}

func sampleResult() source.Result {
	return source.Result{
		Records: []model.SaleRecord{
			{Dias: 10, ValorVenda: 50000, LucroLiquido: 5000, Vendedor: "Ana", AnoMod: "2020/2021"},
			{Dias: 5, ValorVenda: 42000, LucroLiquido: 3000, Vendedor: "Ana", AnoMod: "2019/2020"},
			{Dias: 20, ValorVenda: 30000, LucroLiquido: 1000, Vendedor: "Bruno", AnoMod: "2018"},
			{Dias: 0, ValorVenda: 25000, LucroLiquido: 500, Vendedor: "Repasse", AnoMod: "2015"},
		},
		Sellers: []string{"Ana", "Bruno", "Repasse"},
		Rows:    4,
	}
}

func newTestService(t *testing.T, src *stubSource, buffer int) *Service {
	t.Helper()
	logger := log.New(io.Discard)
	state := dashboard.NewState(dashboard.Options{Logger: logger})
	return New(Config{Interval: 10 * time.Second, EventsBuffer: buffer, Logger: logger}, state, src)
}

func TestDiffSnapshots(t *testing.T) {
	prev := dashboard.Snapshot{
		Records:      10,
		Summary:      model.SummaryStats{Units: 8, Revenue: 400000, NetProfit: 30000},
		AvgStockDays: 12.5,
		Repasse:      model.RepasseStats{Units: 2, Revenue: 50000},
		TopSeller:    model.TopSeller{Name: "Ana", Count: 5},
	}
	curr := dashboard.Snapshot{
		Records:      12,
		Summary:      model.SummaryStats{Units: 9, Revenue: 445000.5, NetProfit: 32500},
		AvgStockDays: 11.5,
		Repasse:      model.RepasseStats{Units: 3, Revenue: 75000},
		TopSeller:    model.TopSeller{Name: "Bruno", Count: 6},
	}

	delta := diffSnapshots(prev, curr)
	if delta.Records != 2 {
		t.Fatalf("Records delta = %d, want 2", delta.Records)
	}
	if delta.Units != 1 {
		t.Fatalf("Units delta = %d, want 1", delta.Units)
	}
	if math.Abs(delta.Revenue-45000.5) > 1e-9 {
		t.Fatalf("Revenue delta = %.2f, want 45000.50", delta.Revenue)
	}
	if math.Abs(delta.AvgStockDays+1) > 1e-9 {
		t.Fatalf("AvgStockDays delta = %.2f, want -1", delta.AvgStockDays)
	}
	if delta.RepasseUnits != 1 {
		t.Fatalf("RepasseUnits delta = %d, want 1", delta.RepasseUnits)
	}
	if delta.TopSeller != "Bruno" {
		t.Fatalf("TopSeller = %q, want Bruno", delta.TopSeller)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	if d := diffSnapshots(curr, curr); !d.isZero() {
		t.Fatalf("identical snapshots gave non-zero delta %+v", d)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, &stubSource{}, 2)

	s.publishEvent(Event{Type: "a"})
	s.publishEvent(Event{Type: "b"})
	s.publishEvent(Event{Type: "c"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestReloadPublishesOnlyChanges(t *testing.T) {
	src := &stubSource{res: sampleResult()}
	s := newTestService(t, src, 10)

	if err := s.reload(context.Background()); err != nil {
		t.Fatalf("first reload: %v", err)
	}
	if err := s.reload(context.Background()); err != nil {
		t.Fatalf("second reload: %v", err)
	}

	s.mu.RLock()
	n := len(s.events)
	first := s.events[0]
	s.mu.RUnlock()
	if n != 1 {
		t.Fatalf("events after identical reloads = %d, want 1", n)
	}
	if first.Type != "snapshot" {
		t.Fatalf("first event type = %q, want snapshot", first.Type)
	}

	res := sampleResult()
	res.Records = append(res.Records, model.SaleRecord{Dias: 3, ValorVenda: 60000, LucroLiquido: 7000, Vendedor: "Bruno", AnoMod: "2022"})
	src.set(res, nil)
	if err := s.reload(context.Background()); err != nil {
		t.Fatalf("third reload: %v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want 2", len(s.events))
	}
	last := s.events[1]
	if last.Type != "kpi_delta" {
		t.Fatalf("event type = %q, want kpi_delta", last.Type)
	}
	if last.Delta.Units != 1 || last.Delta.Records != 1 {
		t.Fatalf("delta = %+v, want one more unit and record", last.Delta)
	}
	if s.reloadCount != 3 {
		t.Fatalf("reloadCount = %d, want 3", s.reloadCount)
	}
}

func TestConcurrentObserveKeepsDeltaChain(t *testing.T) {
	src := &stubSource{res: sampleResult()}
	s := newTestService(t, src, 500)
	if err := s.reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	selections := [][]string{{"Ana"}, {"Bruno"}, {"Ana", "Bruno"}, {}}
	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.state.Select(selections[i%len(selections)])
			s.observe()
		}()
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 1; i < len(s.events); i++ {
		want := diffSnapshots(s.events[i-1].Snapshot, s.events[i].Snapshot)
		if s.events[i].Delta != want {
			t.Fatalf("event %d delta = %+v, want %+v against the previous event", s.events[i].ID, s.events[i].Delta, want)
		}
	}
	if got, want := s.snapshot.Selection, s.state.Selection(); !slices.Equal(got, want) {
		t.Fatalf("observed selection = %v, want %v", got, want)
	}
}

func TestSameRegistry(t *testing.T) {
	a := dashboard.Snapshot{
		Sellers:   []string{"Ana", "Bruno"},
		Selection: []string{"Ana"},
		Goals:     map[string]float64{"Ana": 3},
	}
	b := a
	b.Goals = map[string]float64{"Ana": 3}
	if !sameRegistry(a, b) {
		t.Fatal("equal registries reported different")
	}
	b.Goals = map[string]float64{"Ana": 4}
	if sameRegistry(a, b) {
		t.Fatal("goal change not detected")
	}
	c := a
	c.Selection = []string{"Ana", "Bruno"}
	if sameRegistry(a, c) {
		t.Fatal("selection change not detected")
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(Config{Interval: time.Second}, dashboard.NewState(dashboard.Options{}), &stubSource{})
	if s.cfg.Interval != defaultInterval {
		t.Fatalf("Interval = %s, want %s", s.cfg.Interval, defaultInterval)
	}
	if s.cfg.EventsBuffer != defaultEventsBuffer {
		t.Fatalf("EventsBuffer = %d, want %d", s.cfg.EventsBuffer, defaultEventsBuffer)
	}
	if s.cfg.Addr != defaultAddr {
		t.Fatalf("Addr = %q, want %q", s.cfg.Addr, defaultAddr)
	}
}
