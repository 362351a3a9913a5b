package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"

	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

func TestClassifyProviderStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"rate limited", &arkmodel.APIError{HTTPStatusCode: 429, Message: "quota exceeded"}, KindRateLimit},
		{"model not found", &arkmodel.APIError{HTTPStatusCode: 404, Message: "model does not exist"}, KindInvalidModel},
		{"server error", &arkmodel.APIError{HTTPStatusCode: 500, Message: "upstream broke"}, KindAPIStatus},
		{"bad request", &arkmodel.APIError{HTTPStatusCode: 400, Message: "bad payload"}, KindAPIStatus},
		{"wrapped api error", fmt.Errorf("chain: %w", &arkmodel.APIError{HTTPStatusCode: 429}), KindRateLimit},
		{"request error rate limited", &arkmodel.RequestError{HTTPStatusCode: 429, Err: errors.New("429")}, KindRateLimit},
		{"request error generic", &arkmodel.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, KindProvider},
		{"deadline", context.DeadlineExceeded, KindConnection},
		{"canceled", context.Canceled, KindConnection},
		{"url error", &url.Error{Op: "Post", URL: "https://provider.invalid", Err: errors.New("connection refused")}, KindConnection},
		{"dns error", &net.DNSError{Err: "no such host", Name: "provider.invalid"}, KindConnection},
		{"unknown library error", errors.New("provider sdk hiccup"), KindProvider},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := classify(tc.err)
			if failure.Kind != tc.want {
				t.Fatalf("expected kind %s, got %s", tc.want, failure.Kind)
			}
			if failure.Message == "" {
				t.Fatal("expected a user-facing message")
			}
		})
	}
}

func TestClassifiedMessagesNeverLeakProviderDetail(t *testing.T) {
	secrets := []string{"quota exceeded", "model does not exist", "upstream broke", "connection refused"}
	errs := []error{
		&arkmodel.APIError{HTTPStatusCode: 429, Message: "quota exceeded"},
		&arkmodel.APIError{HTTPStatusCode: 404, Message: "model does not exist"},
		&arkmodel.APIError{HTTPStatusCode: 500, Message: "upstream broke"},
		&url.Error{Op: "Post", URL: "https://provider.invalid", Err: errors.New("connection refused")},
	}

	for _, err := range errs {
		msg := classify(err).Message
		for _, secret := range secrets {
			if strings.Contains(msg, secret) {
				t.Fatalf("user message %q leaks provider detail %q", msg, secret)
			}
		}
	}
}

func TestErrorUnwrapPreservesCause(t *testing.T) {
	cause := &arkmodel.APIError{HTTPStatusCode: 500, Message: "upstream broke"}
	failure := classify(cause)

	var apiErr *arkmodel.APIError
	if !errors.As(failure, &apiErr) {
		t.Fatal("expected the provider error to remain reachable for logging")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(newError(KindRateLimit, msgRateLimit, nil)); got != KindRateLimit {
		t.Fatalf("expected %s, got %s", KindRateLimit, got)
	}
	if got := KindOf(fmt.Errorf("wrap: %w", newError(KindConfig, msgConfig, nil))); got != KindConfig {
		t.Fatalf("expected %s, got %s", KindConfig, got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Fatalf("expected %s, got %s", KindInternal, got)
	}
}
