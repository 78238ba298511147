package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.DeadlineExceeded, true},
		{fmt.Errorf("rpc error: %w", context.DeadlineExceeded), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("lookup api.example.com: no such host"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("googleapi: Error 429: rate limit exceeded"), true},
		{errors.New("googleapi: Error 503: service unavailable"), true},
		{errors.New("googleapi: Error 401: invalid API key"), false},
		{errors.New("invalid argument: temperature out of range"), false},
	}
	for _, tc := range cases {
		if got := isRetryableError(tc.err); got != tc.want {
			t.Fatalf("isRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
