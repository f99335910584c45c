package appstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupClientBundleID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "382617920" {
			t.Errorf("id = %q", got)
		}
		w.Write([]byte(`{"resultCount":1,"results":[{"bundleId":"com.viber"}]}`))
	}))
	defer srv.Close()

	c := NewLookupClient(srv.URL, time.Second)
	got, err := c.BundleID(context.Background(), "382617920")
	if err != nil {
		t.Fatalf("BundleID: %v", err)
	}
	if got != "com.viber" {
		t.Fatalf("bundle id = %q", got)
	}
}

func TestLookupClientUnknownApp(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero results", `{"resultCount":0,"results":[]}`},
		{"empty bundle id", `{"resultCount":1,"results":[{"bundleId":""}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewLookupClient(srv.URL, time.Second)
			_, err := c.BundleID(context.Background(), "99999")
			if !errors.Is(err, ErrUnknownApp) {
				t.Fatalf("error = %v, want %v", err, ErrUnknownApp)
			}
		})
	}
}

func TestLookupClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewLookupClient(srv.URL, time.Second)
	_, err := c.BundleID(context.Background(), "1")
	if err == nil {
		t.Fatal("want error for HTTP 500")
	}
	if errors.Is(err, ErrUnknownApp) {
		t.Fatalf("HTTP error must not be classified as unknown app: %v", err)
	}
}
