package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"daymate/internal/models"
	"daymate/internal/trigger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second)
}

func TestActivityMessageSuccess(t *testing.T) {
	var gotReq models.ContentRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/content" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.ContentResponse{Recommendation: "오늘 회의 잘 다녀오세요!"})
	})

	got := client.ActivityMessage(context.Background(), trigger.FamilyStart, "팀 회의")
	if got != "오늘 회의 잘 다녀오세요!" {
		t.Fatalf("got %q", got)
	}
	if gotReq.ActivityName != "팀 회의" || gotReq.Context != models.ContextScheduleStart {
		t.Fatalf("request body wrong: %+v", gotReq)
	}
}

func TestActivityMessageFallbackOnServerError(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := client.ActivityMessage(context.Background(), trigger.FamilyPreReminder, "공부")
	if got != "곧 일정이 시작됩니다. 준비하실 것이 있나요?" {
		t.Fatalf("got %q, want the pre-reminder fallback", got)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("made %d calls, want exactly 1 (no retries)", calls)
	}
}

func TestActivityMessageFallbackOnMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	got := client.ActivityMessage(context.Background(), trigger.FamilyCheckIn, "업무")
	if got != defaultFallbacks()[trigger.FamilyCheckIn] {
		t.Fatalf("got %q, want the check-in fallback", got)
	}
}

func TestActivityMessageFallbackOnEmptyRecommendation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.ContentResponse{})
	})
	got := client.ActivityMessage(context.Background(), trigger.FamilyFeedback, "업무")
	if got != defaultFallbacks()[trigger.FamilyFeedback] {
		t.Fatalf("got %q, want the feedback fallback", got)
	}
}

func TestActivityMessageUnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	got := client.ActivityMessage(context.Background(), trigger.FamilyStart, "업무")
	if got != defaultFallbacks()[trigger.FamilyStart] {
		t.Fatalf("got %q, want the start fallback", got)
	}
}

func TestNewsMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/news" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.NewsResponse{
			HasNews:  true,
			Headline: "AI 시장 동향",
			Content:  "요약 내용",
			Source:   "연합뉴스",
		})
	})

	got, ok := client.NewsMessage(context.Background())
	if !ok {
		t.Fatal("expected a news message")
	}
	for _, want := range []string{"📰", "AI 시장 동향", "요약 내용", "(출처: 연합뉴스)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("news text %q missing %q", got, want)
		}
	}
}

func TestNewsMessageNoRelevantNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.NewsResponse{HasNews: false})
	})
	if _, ok := client.NewsMessage(context.Background()); ok {
		t.Fatal("hasNews=false must suppress the message")
	}
}

func TestNewsMessageTransportFailureUsesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	got, ok := client.NewsMessage(context.Background())
	if !ok {
		t.Fatal("transport failure should produce fallback text, not suppression")
	}
	if got != defaultFallbacks()[trigger.FamilyNews] {
		t.Fatalf("got %q, want the news fallback", got)
	}
}

func TestNewsMessageMemoized(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(models.NewsResponse{HasNews: true, Headline: "h", Content: "c"})
	})

	client.NewsMessage(context.Background())
	client.NewsMessage(context.Background())
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("made %d upstream calls, want 1 (memoized)", calls)
	}
}

func TestVideoMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.VideoResponse{
			Recommendations: []models.VideoRecommendation{
				{ID: "v1", Title: "10분 명상", Channel: "마음챙김", Duration: "10:00"},
				{ID: "v2", Title: "무시되는 항목", Channel: "x", Duration: "1:00"},
			},
		})
	})

	got := client.VideoMessage(context.Background(), true)
	if !strings.Contains(got, "10분 명상") || !strings.Contains(got, "마음챙김") {
		t.Fatalf("idle video text wrong: %q", got)
	}
	if strings.Contains(got, "무시되는 항목") {
		t.Fatal("only the first recommendation should be used")
	}

	// Second call hits the memoized recommendation with gap-filler phrasing
	gap := client.VideoMessage(context.Background(), false)
	if gap == got {
		t.Fatal("idle and gap-filler phrasings should differ")
	}
	if !strings.Contains(gap, "10분 명상") {
		t.Fatalf("gap video text wrong: %q", gap)
	}
}

func TestVideoMessageEmptyListUsesFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.VideoResponse{})
	})
	got := client.VideoMessage(context.Background(), false)
	if got != defaultFallbacks()[trigger.FamilyGapFiller] {
		t.Fatalf("got %q, want the gap-filler fallback", got)
	}
}

func TestReconfigure(t *testing.T) {
	var hits int32
	newServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(models.ContentResponse{Recommendation: "새 서버 응답"})
	}))
	defer newServer.Close()

	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	client.Reconfigure(newServer.URL, map[string]string{
		trigger.FamilyStart: "커스텀 폴백",
	})

	if got := client.ActivityMessage(context.Background(), trigger.FamilyStart, "업무"); got != "새 서버 응답" {
		t.Fatalf("reconfigured base URL not used: %q", got)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("new server hit %d times, want 1", hits)
	}
	if got := client.Fallback(trigger.FamilyStart); got != "커스텀 폴백" {
		t.Fatalf("fallback override not applied: %q", got)
	}

	// Empty values leave existing settings untouched
	client.Reconfigure("", map[string]string{trigger.FamilyStart: ""})
	if got := client.Fallback(trigger.FamilyStart); got != "커스텀 폴백" {
		t.Fatalf("empty override clobbered fallback: %q", got)
	}
}
