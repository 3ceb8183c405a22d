// Package middleware holds the HTTP middleware chain: credential
// extraction, panic recovery, and request logging. Authorization itself
// happens per-route in the guard; middleware only carries the raw
// bearer credential to it.
package middleware

import (
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// Bearer returns the Bearer token from the Authorization header, or ""
// if the header is missing or malformed. The guard treats "" as
// unauthenticated, so there is no public/protected split here.
func Bearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
