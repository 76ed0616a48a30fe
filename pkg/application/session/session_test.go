package session

import (
	"context"
	"testing"
)

func TestOwnerOf(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		provider Provider
		expected string
	}{
		{"signed in", WithUser(context.Background(), "alice"), ContextProvider{}, "user:alice"},
		{"device subject stays a user", WithUser(context.Background(), "device"), ContextProvider{}, "user:device"},
		{"no user", context.Background(), ContextProvider{}, ""},
		{"empty user", WithUser(context.Background(), ""), ContextProvider{}, ""},
		{"anonymous ignores user", WithUser(context.Background(), "alice"), Anonymous{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OwnerOf(tt.ctx, tt.provider); got != tt.expected {
				t.Errorf("Expected owner %q, got %q", tt.expected, got)
			}
		})
	}
}
