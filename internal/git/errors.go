package git

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Context keys attached to classified git errors.
const (
	ReasonKey    = "reason"
	TransientKey = "transient"
)

// Reasons reported under ReasonKey.
const (
	ReasonAuth      = "auth"
	ReasonNotFound  = "not_found"
	ReasonNetwork   = "network"
	ReasonRateLimit = "rate_limit"
	ReasonProtocol  = "protocol"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
// Authentication and protocol problems are configuration errors; the rest
// are I/O errors, with network and rate-limit failures marked transient.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	category, reason, transient := errors.CategoryIO, "", false
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "not authorized") ||
		strings.Contains(l, "invalid username or password") || strings.Contains(l, "invalid credentials"):
		category, reason = errors.CategoryConfig, ReasonAuth
	case strings.Contains(l, "rate limit") || strings.Contains(l, "too many requests"):
		reason, transient = ReasonRateLimit, true
	case strings.Contains(l, "repository not found") || strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		reason = ReasonNotFound
	case strings.Contains(l, "remote hung up") || strings.Contains(l, "connection reset") || strings.Contains(l, "connection refused") ||
		strings.Contains(l, "timeout") || strings.Contains(l, "no route to host"):
		reason, transient = ReasonNetwork, true
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		category, reason = errors.CategoryConfig, ReasonProtocol
	}

	b := errors.WrapError(err, category, "git "+op+" failed").
		WithContext("op", op).
		WithContext("url", url)
	if reason != "" {
		b.WithContext(ReasonKey, reason)
	}
	if transient {
		b.WithContext(TransientKey, true)
	}
	return b.Build()
}

// IsTransient reports whether a classified git error is worth retrying.
func IsTransient(err error) bool {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return false
	}
	v, _ := ce.Context().Get(TransientKey)
	transient, _ := v.(bool)
	return transient
}
