package server

import "testing"

func TestNewServerDefaultsAddr(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, "")
	if s.addr != ":8080" {
		t.Fatalf("addr = %q, want :8080", s.addr)
	}
}

func TestNewServerKeepsAddr(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, "127.0.0.1:9090")
	if s.addr != "127.0.0.1:9090" {
		t.Fatalf("addr = %q", s.addr)
	}
}
