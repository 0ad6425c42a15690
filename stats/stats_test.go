package stats

import (
	"sync"
	"testing"
	"time"
)

func TestRecordRequest(t *testing.T) {
	s := New()

	for _, group := range []string{"lyrics", "lyrics", "translate", "journal", "health"} {
		s.RecordRequest(group)
	}

	if s.TotalRequests.Load() != 5 {
		t.Errorf("TotalRequests = %d", s.TotalRequests.Load())
	}
	if s.LyricsRequests.Load() != 2 {
		t.Errorf("LyricsRequests = %d", s.LyricsRequests.Load())
	}
	if s.OtherRequests.Load() != 1 {
		t.Errorf("OtherRequests = %d", s.OtherRequests.Load())
	}
}

func TestFreeLookupRate(t *testing.T) {
	s := New()
	if s.FreeLookupRate() != 0 {
		t.Error("expected 0 with no lookups")
	}

	s.RecordLookupSource(SourceSaved)
	s.RecordLookupSource(SourceCache)
	s.RecordLookupSource(SourceCache)
	s.RecordLookupSource(SourceProvider)

	if got := s.FreeLookupRate(); got != 75 {
		t.Errorf("FreeLookupRate() = %v, expected 75", got)
	}
}

func TestProviderResults(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				s.RecordProviderResult("genius", OutcomeFailure)
			} else {
				s.RecordProviderResult("genius", OutcomeSuccess)
			}
		}(i)
	}
	wg.Wait()
	s.RecordProviderResult("lyricsovh", OutcomeNotFound)

	results := s.ProviderResults()
	if results["genius"][OutcomeSuccess] != 15 || results["genius"][OutcomeFailure] != 5 {
		t.Errorf("genius = %v", results["genius"])
	}
	if results["lyricsovh"][OutcomeNotFound] != 1 {
		t.Errorf("lyricsovh = %v", results["lyricsovh"])
	}
}

func TestResponseTimes(t *testing.T) {
	s := New()
	if s.MinResponseTime() != 0 || s.AvgResponseTime() != 0 {
		t.Error("expected zero durations before any response")
	}

	s.RecordResponseTime(10 * time.Millisecond)
	s.RecordResponseTime(30 * time.Millisecond)

	if s.MinResponseTime() != 10*time.Millisecond {
		t.Errorf("Min = %v", s.MinResponseTime())
	}
	if s.MaxResponseTime() != 30*time.Millisecond {
		t.Errorf("Max = %v", s.MaxResponseTime())
	}
	if s.AvgResponseTime() != 20*time.Millisecond {
		t.Errorf("Avg = %v", s.AvgResponseTime())
	}
}

func TestStatusCodesAndSnapshot(t *testing.T) {
	s := New()
	s.RecordStatusCode(200)
	s.RecordStatusCode(404)
	s.RecordStatusCode(429)
	s.RecordStatusCode(502)
	s.RecordStatusCode(301)

	snap := s.Snapshot()
	responses := snap["responses"].(map[string]interface{})
	if responses["2xx"].(int64) != 1 || responses["4xx"].(int64) != 2 || responses["5xx"].(int64) != 1 {
		t.Errorf("responses = %v", responses)
	}
	for _, key := range []string{"server", "requests", "lookups", "providers", "translation", "video"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("snapshot missing %q", key)
		}
	}
}
