package rxnorm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.RatePerSecond = 0
	cfg.TimeoutMs = 2000
	return cfg
}

// fakeRxNav serves canned RxNav responses keyed by request path.
func fakeRxNav(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Search_Success(t *testing.T) {
	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/approximateTerm.json":
			gotTerm = r.URL.Query().Get("term")
			fmt.Fprint(w, `{"approximateGroup":{"candidate":[
				{"rxcui":"36437","rank":"1","name":"sertraline"},
				{"rxcui":"36437","rank":"1","name":"Sertraline"},
				{"rxcui":"82112","rank":"2","name":"Zoloft"},
				{"rxcui":"99999","rank":"3","name":"dup"}]}}`)
		case "/rxcui/36437/properties.json":
			fmt.Fprint(w, `{"properties":{"rxcui":"36437","name":"sertraline","tty":"IN"}}`)
		case "/rxcui/82112/properties.json":
			fmt.Fprint(w, `{"properties":{"rxcui":"82112","name":"Zoloft","tty":"BN"}}`)
		case "/rxcui/99999/properties.json":
			fmt.Fprint(w, `{"properties":{"rxcui":"99999","name":"Sertraline","tty":"IN"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	drugs, err := client.Search(context.Background(), "  sertra ")
	require.NoError(t, err)

	assert.Equal(t, "sertra", gotTerm)
	require.Len(t, drugs, 2)
	assert.Equal(t, Drug{RxCUI: "36437", Name: "sertraline", TTY: "IN", Rank: 1}, drugs[0])
	assert.Equal(t, "Zoloft", drugs[1].Name)
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_Search_NoResults(t *testing.T) {
	srv := fakeRxNav(t, map[string]string{
		"/approximateTerm.json": `{"approximateGroup":{"inputTerm":"zzz"}}`,
	})
	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Search(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Search(context.Background(), "aspirin")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestClient_DecodeError(t *testing.T) {
	srv := fakeRxNav(t, map[string]string{"/approximateTerm.json": `{not json`})
	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Search(context.Background(), "aspirin")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TimeoutMs = 50
	client := NewClient(cfg, NoopObserver{})
	_, err := client.Properties(context.Background(), "1")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	client := NewClient(testConfig("http://127.0.0.1:1"), NoopObserver{})
	_, err := client.Properties(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Formulations(t *testing.T) {
	var gotTTY string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rxcui/36437/related.json", r.URL.Path)
		gotTTY = r.URL.Query().Get("tty")
		fmt.Fprint(w, `{"relatedGroup":{"conceptGroup":[
			{"tty":"SBD","conceptProperties":[
				{"rxcui":"208161","name":"sertraline 50 MG Oral Tablet [Zoloft]","tty":"SBD"}]},
			{"tty":"SCD","conceptProperties":[
				{"rxcui":"312941","name":"sertraline 100 MG Oral Tablet","tty":"SCD"},
				{"rxcui":"312940","name":"sertraline 50 MG Oral Tablet","tty":"SCD"},
				{"rxcui":"861066","name":"sertraline 20 MG/ML Oral Solution","tty":"SCD"}]}]}}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), NoopObserver{})
	forms, err := client.Formulations(context.Background(), "36437")
	require.NoError(t, err)
	assert.Equal(t, "SCD SBD", gotTTY)

	want := []Formulation{
		{RxCUI: "861066", Name: "sertraline 20 MG/ML Oral Solution", TTY: "SCD", Strength: "20 MG/ML", DosageForm: "Oral Solution"},
		{RxCUI: "312940", Name: "sertraline 50 MG Oral Tablet", TTY: "SCD", Strength: "50 MG", DosageForm: "Oral Tablet"},
		{RxCUI: "312941", Name: "sertraline 100 MG Oral Tablet", TTY: "SCD", Strength: "100 MG", DosageForm: "Oral Tablet"},
		{RxCUI: "208161", Name: "sertraline 50 MG Oral Tablet [Zoloft]", TTY: "SBD", Strength: "50 MG", DosageForm: "Oral Tablet"},
	}
	if diff := cmp.Diff(want, forms); diff != "" {
		t.Errorf("Formulations mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Formulations_Empty(t *testing.T) {
	srv := fakeRxNav(t, map[string]string{"/rxcui/1/related.json": `{"relatedGroup":{"conceptGroup":[{"tty":"SCD"}]}}`})
	client := NewClient(testConfig(srv.URL), NoopObserver{})
	_, err := client.Formulations(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClient_ObserverCalled(t *testing.T) {
	srv := fakeRxNav(t, map[string]string{
		"/rxcui/36437/properties.json": `{"properties":{"rxcui":"36437","name":"sertraline","tty":"IN"}}`,
	})

	var mu sync.Mutex
	var events []CallEvent
	obs := &captureObserver{fn: func(e CallEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}}
	client := NewClient(testConfig(srv.URL), obs)

	_, err := client.Properties(context.Background(), "36437")
	require.NoError(t, err)
	_, err = client.Properties(context.Background(), "missing")
	require.Error(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "properties", events[0].Op)
	assert.True(t, events[0].Success)
	assert.False(t, events[1].Success)
	assert.Equal(t, "BAD_STATUS", events[1].ErrorCode)
}

func TestClient_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"properties":{"rxcui":"1","name":"x"}}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RatePerSecond = 20
	cfg.Burst = 1
	client := NewClient(cfg, NoopObserver{})

	start := time.Now()
	for i := 0; i < 4; i++ {
		_, err := client.Properties(context.Background(), "1")
		require.NoError(t, err)
	}
	// Burst 1 at 20/s spaces the last three calls by ~50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 120*time.Millisecond)
	assert.Equal(t, int32(4), calls.Load())
}

type captureObserver struct {
	fn func(CallEvent)
}

func (o *captureObserver) OnCallComplete(e CallEvent) { o.fn(e) }
