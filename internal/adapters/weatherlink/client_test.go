package weatherlink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const currentPayload = `{
  "station_id": 1234,
  "generated_at": 1700000000,
  "sensors": [
    {
      "lsid": 48308,
      "sensor_type": 45,
      "data_structure_type": 10,
      "data": [{"ts": 1699999990, "temp": 72.4, "hum": 55, "wind_chill": null, "trans_battery_flag": "ok"}]
    }
  ]
}`

func TestFetchCurrent_Success(t *testing.T) {
	var gotPath, gotKey, gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api-key")
		gotSecret = r.Header.Get("X-Api-Secret")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentPayload))
	}))
	defer srv.Close()

	c := New("key-1", "secret-1", WithBaseURL(srv.URL))
	env, err := c.FetchCurrent(context.Background(), "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/current/1234" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "key-1" || gotSecret != "secret-1" {
		t.Fatalf("unexpected credentials key=%q secret=%q", gotKey, gotSecret)
	}
	if env.StationID != 1234 || len(env.Sensors) != 1 || len(env.Sensors[0].Data) != 1 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	rec := env.Sensors[0].Data[0]
	if rec["temp"] != 72.4 || rec["hum"] != 55.0 {
		t.Fatalf("unexpected record values: %v", rec)
	}
	if v, ok := rec["wind_chill"]; !ok || v != nil {
		t.Fatalf("expected wind_chill present and null, got %v (present=%v)", v, ok)
	}
}

func TestFetchCurrent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(strings.Repeat("x", 600)))
	}))
	defer srv.Close()

	c := New("k", "s", WithBaseURL(srv.URL))
	_, err := c.FetchCurrent(context.Background(), "1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 401 {
		t.Fatalf("expected status 401, got %d", apiErr.StatusCode)
	}
	if len(apiErr.Body) != 512 {
		t.Fatalf("expected body truncated to 512 bytes, got %d", len(apiErr.Body))
	}
}

func TestFetchCurrent_SingleAttemptOn5xx(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(503)
	}))
	defer srv.Close()

	c := New("k", "s", WithBaseURL(srv.URL))
	if _, err := c.FetchCurrent(context.Background(), "1"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestFetchCurrent_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sensors": "nope"`))
	}))
	defer srv.Close()

	c := New("k", "s", WithBaseURL(srv.URL))
	if _, err := c.FetchCurrent(context.Background(), "1"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchCurrent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(currentPayload))
	}))
	defer srv.Close()

	c := New("k", "s", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	if _, err := c.FetchCurrent(context.Background(), "1"); err == nil {
		t.Fatal("expected timeout error")
	}
}
