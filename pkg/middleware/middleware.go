package middleware

import (
	"net/http"
)

type ctxKey string

const (
	ContextKeyRequestID ctxKey = "request_id"
)

const (
	forwardedUserHeader = "X-Forwarded-User"
	requestIDHeader     = "X-Request-ID"
)

type Middleware func(http.Handler) http.Handler
