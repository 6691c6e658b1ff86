package fallback

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Reason strings shown to the user when the client degrades. The exact
// wording is part of the client contract and surfaced in banners.
const (
	ReasonAIUnavailable    = "AI processing temporarily unavailable (422 error)"
	ReasonConnectionFailed = "Backend server connection failed"
	ReasonServerError      = "Backend server error"
	ReasonAPIUnavailable   = "API temporarily unavailable"
)

// Verdict is the classifier's decision for a failed remote call.
// Fallback is always true: every remote failure degrades to the local
// store, the classifier only selects the displayed reason.
type Verdict struct {
	Fallback bool
	Reason   string
}

// classifyRule pairs a predicate with the reason it selects. Rules are
// evaluated in slice order and the first match wins.
type classifyRule struct {
	matches func(err error, status int) bool
	reason  string
}

var classifyRules = []classifyRule{
	{isAIFailure, ReasonAIUnavailable},
	{isNetworkFailure, ReasonConnectionFailed},
	{isServerError, ReasonServerError},
}

// Classify inspects a failed remote call and picks the reason to show.
// status is the HTTP status code when one was received, 0 otherwise.
func Classify(err error, status int) Verdict {
	for _, rule := range classifyRules {
		if rule.matches(err, status) {
			return Verdict{Fallback: true, Reason: rule.reason}
		}
	}
	return Verdict{Fallback: true, Reason: ReasonAPIUnavailable}
}

func isAIFailure(err error, status int) bool {
	if status == 422 {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "422")
}

func isNetworkFailure(err error, _ int) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	text := strings.ToLower(err.Error())
	for _, signature := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"no route to host",
		"timeout",
		"cors",
		"failed to fetch",
		"networkerror",
		"offline",
	} {
		if strings.Contains(text, signature) {
			return true
		}
	}
	return false
}

func isServerError(err error, status int) bool {
	if status == 500 || status == 503 {
		return true
	}
	if err == nil {
		return false
	}
	text := err.Error()
	return strings.Contains(text, "500") || strings.Contains(text, "503")
}
