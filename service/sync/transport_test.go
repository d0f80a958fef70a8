package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"malldepot/config"
)

func newTestClient() *Client {
	return NewClient(&config.Config{HTTPTimeout: 5 * time.Second})
}

func TestClient_Download_VerbatimJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"code": "A1", "quantity": 2}]`))
	}))
	defer ts.Close()

	raw, err := newTestClient().Download(context.Background(), ts.URL, "tok")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	rows, ok := raw.([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("raw = %#v", raw)
	}
}

func TestClient_Download_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient().Download(context.Background(), ts.URL, "")
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Kind != KindStatus || terr.Status != 500 {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_Download_Connectivity(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close() // Nothing listens here anymore.

	_, err := newTestClient().Download(context.Background(), url, "")
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Kind != KindConnectivity {
		t.Fatalf("err = %v", err)
	}
}

func TestClient_Upload_RequiresObjectEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	}))
	defer ts.Close()

	_, err := newTestClient().Upload(context.Background(), map[string]int{"x": 1}, ts.URL, "")
	if err == nil {
		t.Fatal("want error for non-object success body")
	}
}

func TestClient_Upload_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"status": "ok", "updated": 3}`))
	}))
	defer ts.Close()

	envelope, err := newTestClient().Upload(context.Background(), map[string]int{"x": 1}, ts.URL, "")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if envelope["status"] != "ok" {
		t.Errorf("envelope = %v", envelope)
	}
}

func TestClient_Reset_NonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	err := newTestClient().Reset(context.Background(), ts.URL, "")
	var terr *TransportError
	if !errors.As(err, &terr) || terr.Kind != KindStatus || terr.Status != 403 {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildAPIURL(t *testing.T) {
	cases := []struct {
		https    bool
		host     string
		port     int
		endpoint string
		want     string
	}{
		{false, "127.0.0.1", 5050, "api/purchases", "http://127.0.0.1:5050/api/purchases"},
		{true, "store.example", 443, "/api/bulk_update", "https://store.example:443/api/bulk_update"},
		{false, "127.0.0.1", 8080, "", "http://127.0.0.1:8080"},
	}
	for _, c := range cases {
		got := BuildAPIURL(c.https, c.host, c.port, c.endpoint)
		if got != c.want {
			t.Errorf("BuildAPIURL(%v, %q, %d, %q) = %q, want %q", c.https, c.host, c.port, c.endpoint, got, c.want)
		}
	}
}
