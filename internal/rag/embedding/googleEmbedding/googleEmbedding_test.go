package googleEmbedding

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"grpc unavailable", status.Error(codes.Unavailable, "down"), false},
		{"api error 429", genai.APIError{Code: 429, Message: "too many"}, true},
		{"wrapped api error 429", fmt.Errorf("call: %w", genai.APIError{Code: 429}), true},
		{"api error 400", genai.APIError{Code: 400}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimited(tt.err); got != tt.want {
				t.Errorf("isRateLimited(%v) = %v; want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetContent(t *testing.T) {
	contents := getContent([]string{"a", "b"})
	if len(contents) != 2 || contents[1].Parts[0].Text != "b" {
		t.Fatalf("unexpected contents: %+v", contents)
	}
}
