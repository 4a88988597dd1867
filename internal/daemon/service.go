// Package daemon provides the long-running HTTP layout service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/ringchart/internal/geometry"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/render"
	"github.com/theirongolddev/ringchart/internal/source"
	"github.com/theirongolddev/ringchart/internal/store"
)

const (
	modeDonut  = "donut"
	modeRadial = "radial"
)

// DatasetStore is the subset of store.Store the service reads from.
type DatasetStore interface {
	ListDatasets() ([]store.DatasetInfo, error)
	LoadDataset(name string) ([]model.Category, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Chart        model.ChartConfig
	Store        DatasetStore // optional; dataset endpoints answer 503 without it
	Interval     time.Duration
	EventsBuffer int
	MaxBodyBytes int64
}

// Snapshot is a compact store state for status/event payloads.
type Snapshot struct {
	At         time.Time `json:"at"`
	Datasets   int       `json:"datasets"`
	Categories int       `json:"categories"`
	Total      float64   `json:"total"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Datasets   int     `json:"datasets"`
	Categories int     `json:"categories"`
	Total      float64 `json:"total"`
}

func (d Delta) isZero() bool {
	return d.Datasets == 0 && d.Categories == 0 && d.Total == 0
}

// LayoutSummary describes a layout served by the API.
type LayoutSummary struct {
	Mode    string  `json:"mode"`
	Dataset string  `json:"dataset,omitempty"`
	Items   int     `json:"items"`
	Total   float64 `json:"total"`
	NoData  bool    `json:"no_data,omitempty"`
}

// Event is emitted whenever the store changes or a layout is served.
type Event struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Snapshot  Snapshot       `json:"snapshot"`
	Delta     Delta          `json:"delta"`
	Layout    *LayoutSummary `json:"layout,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Requests        int64     `json:"requests"`
	Layouts         int64     `json:"layouts"`
	StoreEnabled    bool      `json:"store_enabled"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	requests    int64
	layouts     int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.Chart.Size <= 0 {
		cfg.Chart = model.DefaultChartConfig()
	}

	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the service's HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("POST /v1/layout/{mode}", s.handleLayout)
	mux.HandleFunc("GET /v1/datasets", s.handleDatasets)
	mux.HandleFunc("GET /v1/datasets/{name}/{mode}", s.handleDatasetLayout)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

// Run starts HTTP endpoints and store polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	if s.cfg.Store == nil {
		return
	}

	infos, err := s.cfg.Store.ListDatasets()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		log.Printf("ringchart daemon poll error: %v", err)
		return
	}

	now := time.Now()
	snap := snapshotFromInfos(infos, now)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.appendEventLocked(Event{
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		})
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.appendEventLocked(Event{
			Type:      "datasets_delta",
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		})
	}
}

func snapshotFromInfos(infos []store.DatasetInfo, at time.Time) Snapshot {
	snap := Snapshot{At: at, Datasets: len(infos)}
	for _, info := range infos {
		snap.Categories += info.Categories
		snap.Total += info.Total
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Datasets:   curr.Datasets - prev.Datasets,
		Categories: curr.Categories - prev.Categories,
		Total:      curr.Total - prev.Total,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.fanOutLocked(ev)
	s.mu.Unlock()
}

// appendEventLocked assigns the next event ID and publishes ev.
// The caller must hold s.mu.
func (s *Service) appendEventLocked(ev Event) {
	s.nextEventID++
	ev.ID = s.nextEventID
	s.fanOutLocked(ev)
}

func (s *Service) fanOutLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// recordLayout counts a served layout and publishes a layout event.
func (s *Service) recordLayout(summary LayoutSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts++
	s.appendEventLocked(Event{
		Type:      "layout",
		Timestamp: time.Now(),
		Snapshot:  s.snapshot,
		Layout:    &summary,
	})
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Requests:        s.requests,
		Layouts:         s.layouts,
		StoreEnabled:    s.cfg.Store != nil,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

// layoutRequest is the body of POST /v1/layout/{mode}. Categories accepts the
// same shapes as a JSON dataset file; Config holds partial overrides.
type layoutRequest struct {
	Categories json.RawMessage `json:"categories"`
	Config     json.RawMessage `json:"config"`
}

func (s *Service) handleLayout(w http.ResponseWriter, r *http.Request) {
	mode := r.PathValue("mode")
	if mode != modeDonut && mode != modeRadial {
		s.fail(w, http.StatusNotFound, fmt.Errorf("unknown layout mode %q", mode))
		return
	}

	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	cfg := s.cfg.Chart
	if len(req.Config) > 0 && string(req.Config) != "null" {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding config: %w", err))
			return
		}
		if cfg.Size <= 0 || cfg.StrokeWidth < 0 || cfg.GapDegrees < 0 || cfg.Gap < 0 {
			s.fail(w, http.StatusBadRequest, errors.New("config size must be positive; stroke_width, gap_degrees and gap non-negative"))
			return
		}
	}

	var cats []model.Category
	if len(req.Categories) > 0 && string(req.Categories) != "null" {
		decoded, _, err := source.DecodeCategories(req.Categories)
		if err != nil {
			s.fail(w, http.StatusBadRequest, fmt.Errorf("decoding categories: %w", err))
			return
		}
		cats = decoded
	}

	s.serveLayout(w, r, mode, "", cats, cfg)
}

func (s *Service) handleDatasets(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Store == nil {
		s.fail(w, http.StatusServiceUnavailable, errors.New("no dataset store configured"))
		return
	}

	infos, err := s.cfg.Store.ListDatasets()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("listing datasets: %w", err))
		return
	}
	if infos == nil {
		infos = []store.DatasetInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Service) handleDatasetLayout(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		s.fail(w, http.StatusServiceUnavailable, errors.New("no dataset store configured"))
		return
	}

	name, mode := r.PathValue("name"), r.PathValue("mode")
	if mode != modeDonut && mode != modeRadial {
		s.fail(w, http.StatusNotFound, fmt.Errorf("unknown layout mode %q", mode))
		return
	}

	cats, err := s.cfg.Store.LoadDataset(name)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, fmt.Errorf("loading dataset: %w", err))
		return
	}

	s.serveLayout(w, r, mode, name, cats, s.cfg.Chart)
}

// serveLayout computes the layout and writes it as JSON, or as SVG when the
// request asks for ?format=svg.
func (s *Service) serveLayout(w http.ResponseWriter, r *http.Request, mode, dataset string, cats []model.Category, cfg model.ChartConfig) {
	asSVG := r.URL.Query().Get("format") == "svg"
	summary := LayoutSummary{Mode: mode, Dataset: dataset, Items: len(cats)}

	var (
		body   any
		svgErr error
	)
	switch mode {
	case modeDonut:
		layout := geometry.ComputeDonutLayout(cats, cfg)
		summary.Total = layout.Total
		if asSVG {
			w.Header().Set("Content-Type", "image/svg+xml")
			svgErr = render.SVGDonut(w, layout)
		}
		body = layout
	default:
		layout := geometry.ComputeRadialLayout(cats, cfg)
		summary.Total = layout.Total
		summary.NoData = layout.NoData
		if asSVG {
			w.Header().Set("Content-Type", "image/svg+xml")
			svgErr = render.SVGRadial(w, layout)
		}
		body = layout
	}

	s.recordLayout(summary)

	if asSVG {
		if svgErr != nil {
			s.recordError(svgErr)
			log.Printf("ringchart daemon svg write error: %v", svgErr)
		}
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Service) fail(w http.ResponseWriter, status int, err error) {
	s.recordError(err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
