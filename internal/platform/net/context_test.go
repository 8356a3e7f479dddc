package net_test

import (
	"context"
	"testing"

	pnet "tasker/internal/platform/net"
)

func TestWithRequest_And_Getters(t *testing.T) {
	base := context.Background()

	t.Run("all ids", func(t *testing.T) {
		ctx := pnet.WithSource(pnet.WithUser(pnet.WithRequest(base, "req-123"), "u-1"), "api")

		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
		if got := pnet.UserID(ctx); got != "u-1" {
			t.Fatalf("UserID got %q want %q", got, "u-1")
		}
		if got := pnet.Source(ctx); got != "api" {
			t.Fatalf("Source got %q want %q", got, "api")
		}
	})

	t.Run("empty values leave ctx unchanged", func(t *testing.T) {
		ctx := pnet.WithSource(pnet.WithUser(pnet.WithRequest(base, ""), ""), "")
		if ctx != base {
			t.Fatalf("expected ctx to be unchanged when all ids are empty")
		}
		if pnet.RequestID(ctx) != "" || pnet.UserID(ctx) != "" || pnet.Source(ctx) != "" {
			t.Fatalf("expected empty getters")
		}
	})
}
