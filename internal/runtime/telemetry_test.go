package runtime

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, tel *Telemetry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	tel.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}
	return string(body)
}

func TestTelemetryExposesMetrics(t *testing.T) {
	tel := NewTelemetry()
	tel.ObserveQuestion(OutcomeAnswered, 120*time.Millisecond)
	tel.ObserveQuestion(OutcomeTimeout, 30*time.Second)
	tel.ObserveSearch()
	tel.SetCorpusSize(4, 11)

	body := scrape(t, tel)
	for _, want := range []string{
		`podbotnik_questions_total{outcome="answered"} 1`,
		`podbotnik_questions_total{outcome="timeout"} 1`,
		`podbotnik_searches_total 1`,
		`podbotnik_answer_duration_seconds_count 2`,
		`podbotnik_episodes_loaded 4`,
		`podbotnik_segments_indexed 11`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected standard Go collector metrics")
	}
}

func TestTelemetryRegistriesAreIndependent(t *testing.T) {
	a, b := NewTelemetry(), NewTelemetry()
	a.ObserveSearch()

	if body := scrape(t, b); strings.Contains(body, "podbotnik_searches_total 1") {
		t.Error("expected fresh registry to be unaffected by another instance")
	}
}

func TestTelemetryNilReceiverIsSafe(t *testing.T) {
	var tel *Telemetry
	tel.ObserveQuestion(OutcomeError, time.Second)
	tel.ObserveSearch()
	tel.SetCorpusSize(1, 2)
}
