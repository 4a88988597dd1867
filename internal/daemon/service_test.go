package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/store"
)

type fakeStore struct {
	infos    []store.DatasetInfo
	datasets map[string][]model.Category
	listErr  error
}

func (f *fakeStore) ListDatasets() ([]store.DatasetInfo, error) {
	return f.infos, f.listErr
}

func (f *fakeStore) LoadDataset(name string) ([]model.Category, error) {
	cats, ok := f.datasets[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cats, nil
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Datasets: 2, Categories: 10, Total: 100}
	curr := Snapshot{Datasets: 3, Categories: 14, Total: 140}

	delta := diffSnapshots(prev, curr)
	if delta.Datasets != 1 {
		t.Fatalf("Datasets delta = %d, want 1", delta.Datasets)
	}
	if delta.Categories != 4 {
		t.Fatalf("Categories delta = %d, want 4", delta.Categories)
	}
	if delta.Total != 40 {
		t.Fatalf("Total delta = %v, want 40", delta.Total)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestEvents_IDsOrderedUnderConcurrency(t *testing.T) {
	fs := &fakeStore{infos: []store.DatasetInfo{{Name: "a", Categories: 1, Total: 1}}}
	s := New(Config{Store: fs, EventsBuffer: 1000})
	h := s.Handler()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout/donut", strings.NewReader(`{"categories":[{"value":1}]}`)))
			}
		}()
		go func() {
			defer wg.Done()
			s.pollOnce()
		}()
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if want := workers*10 + 1; len(s.events) != want {
		t.Fatalf("events = %d, want %d", len(s.events), want)
	}
	for i := 1; i < len(s.events); i++ {
		if s.events[i].ID <= s.events[i-1].ID {
			t.Fatalf("event %d ID %d follows %d", i, s.events[i].ID, s.events[i-1].ID)
		}
	}
}

func TestPollOnce_PublishesOnChange(t *testing.T) {
	fs := &fakeStore{infos: []store.DatasetInfo{{Name: "a", Categories: 2, Total: 5}}}
	s := New(Config{Store: fs})

	s.pollOnce()
	s.pollOnce()
	fs.infos = append(fs.infos, store.DatasetInfo{Name: "b", Categories: 1, Total: 1})
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want snapshot and one delta", len(s.events))
	}
	if s.events[1].Type != "datasets_delta" || s.events[1].Delta.Datasets != 1 {
		t.Fatalf("second event = %+v", s.events[1])
	}
	if s.pollCount != 3 {
		t.Errorf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollOnce_RecordsError(t *testing.T) {
	s := New(Config{Store: &fakeStore{listErr: errors.New("db locked")}})
	s.pollOnce()

	if got := s.snapshotStatus().LastError; got != "db locked" {
		t.Fatalf("LastError = %q", got)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(New(Config{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestLayoutDonut(t *testing.T) {
	s := New(Config{})
	body := `{"categories":[{"label":"a","value":3},{"label":"b","value":"oops"},{"value":1}],"config":{"gap_degrees":0}}`

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout/donut", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var layout model.DonutLayout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Arcs) != 3 {
		t.Fatalf("arcs = %d, want 3", len(layout.Arcs))
	}
	if layout.Arcs[1].StrokeLength != 0 {
		t.Errorf("non-numeric value should produce a zero arc, got %v", layout.Arcs[1].StrokeLength)
	}
	if layout.Total != 4 {
		t.Errorf("Total = %v, want 4", layout.Total)
	}

	st := s.snapshotStatus()
	if st.Layouts != 1 || st.Requests != 1 {
		t.Errorf("status = %+v, want one request and one layout", st)
	}
}

func TestLayoutRadial_NoData(t *testing.T) {
	s := New(Config{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout/radial", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var layout model.RadialLayout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatal(err)
	}
	if !layout.NoData || layout.NoDataLabel != model.DefaultNoDataLabel {
		t.Fatalf("layout = %+v, want no-data placeholder", layout)
	}
}

func TestLayout_SVG(t *testing.T) {
	s := New(Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/layout/radial?format=svg", strings.NewReader(`{"categories":[{"value":1},{"value":1}]}`))
	s.Handler().ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatal("body is not svg")
	}
}

func TestLayout_BadRequests(t *testing.T) {
	tests := []struct {
		name, path, body string
		want             int
	}{
		{"bad json", "/v1/layout/donut", `{`, http.StatusBadRequest},
		{"bad categories", "/v1/layout/donut", `{"categories":"x"}`, http.StatusBadRequest},
		{"bad size", "/v1/layout/donut", `{"config":{"size":0}}`, http.StatusBadRequest},
		{"negative gap degrees", "/v1/layout/donut", `{"categories":[{"value":10}],"config":{"gap_degrees":-90}}`, http.StatusBadRequest},
		{"negative ring gap", "/v1/layout/radial", `{"categories":[{"value":10}],"config":{"gap":-1}}`, http.StatusBadRequest},
		{"unknown mode", "/v1/layout/pie", `{}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{})
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if s.snapshotStatus().LastError == "" {
				t.Error("LastError not recorded")
			}
		})
	}
}

func TestDatasets_NoStore(t *testing.T) {
	s := New(Config{})
	for _, path := range []string{"/v1/datasets", "/v1/datasets/x/donut"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want 503", path, rec.Code)
		}
	}
}

func TestDatasets_WithStore(t *testing.T) {
	fs := &fakeStore{
		infos:    []store.DatasetInfo{{Name: "q3", Categories: 2, Total: 3}},
		datasets: map[string][]model.Category{"q3": {{Value: 1}, {Value: 2}}},
	}
	h := New(Config{Store: fs}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets", nil))
	var infos []store.DatasetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "q3" {
		t.Fatalf("infos = %+v", infos)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/q3/radial", nil))
	var layout model.RadialLayout
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatal(err)
	}
	if len(layout.Rings) != 2 {
		t.Fatalf("rings = %d, want 2", len(layout.Rings))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/datasets/missing/donut", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing dataset status = %d, want 404", rec.Code)
	}
}
