package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Fatal("expected error for empty signing secret")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := NewCodec("unit-test-secret")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	ttl := 30 * time.Minute
	token, err := codec.Issue(nil, ttl)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims["type"] != SubjectAnonymousSession {
		t.Fatalf("expected type %q, got %v", SubjectAnonymousSession, claims["type"])
	}

	jti := claims.JTI()
	if jti == "" {
		t.Fatal("expected a jti claim")
	}
	if _, err := uuid.Parse(jti); err != nil {
		t.Fatalf("jti is not a uuid: %v", err)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		t.Fatalf("expected numeric iat, got %T", claims["iat"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("expected numeric exp, got %T", claims["exp"])
	}
	if got := time.Duration(exp-iat) * time.Second; got != ttl {
		t.Fatalf("expected exp-iat == %v, got %v", ttl, got)
	}
}

func TestIssueMintsFreshNonce(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	first, err := codec.Issue(nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := codec.Issue(nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	firstClaims, _ := codec.Verify(first)
	secondClaims, _ := codec.Verify(second)
	if firstClaims.JTI() == secondClaims.JTI() {
		t.Fatal("expected a fresh jti per issuance")
	}
}

func TestIssueMergesCallerClaims(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	token, err := codec.Issue(map[string]interface{}{"scope": "advice"}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims["scope"] != "advice" {
		t.Fatalf("expected merged caller claim, got %v", claims["scope"])
	}
	// Reserved claims always win over caller-supplied ones.
	if claims["type"] != SubjectAnonymousSession {
		t.Fatalf("expected reserved type claim, got %v", claims["type"])
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	token, err := codec.Issue(nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.Verify(tampered); err == nil {
		t.Fatal("expected rejection of tampered signature")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	token, err := codec.Issue(nil, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(token); err == nil {
		t.Fatal("expected rejection of expired token")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(raw); err == nil {
			t.Fatalf("expected rejection of malformed token %q", raw)
		}
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer, _ := NewCodec("secret-one")
	verifier, _ := NewCodec("secret-two")

	token, err := issuer.Issue(nil, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected rejection of token signed with a different secret")
	}
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	// Header {"alg":"none","typ":"JWT"} with an arbitrary payload and no
	// signature; must never pass the HS256-only verifier.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ0eXBlIjoiYW5vbnltb3VzX3Nlc3Npb24ifQ."
	if _, err := codec.Verify(unsigned); err == nil {
		t.Fatal("expected rejection of alg=none token")
	}
}
