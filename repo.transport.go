package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TransportFunc is an adapter to use ordinary functions as http.RoundTripper.
type TransportFunc func(*http.Request) (*http.Response, error)

func (f TransportFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// TransportMiddleware decorates an outgoing round trip.
type TransportMiddleware func(http.RoundTripper) http.RoundTripper

// TransportMiddlewares is a stack of middlewares used to build a single chain.
type TransportMiddlewares []TransportMiddleware

// Chain wraps a given http.RoundTripper with a list of middlewares.
// It does by starting from the last middleware from the list, so the
// first one sees the request first.
func (m TransportMiddlewares) Chain(rt http.RoundTripper) http.RoundTripper {
	if len(m) == 0 {
		return rt
	}
	lg := len(m)
	transport := m[lg-1](rt)

	for i := lg - 2; i >= 0; i-- {
		transport = m[i](transport)
	}

	return transport
}

// RequestIDTransport copies the request id found in the context to the
// X-Request-ID header so both sides can correlate their logs. Ids that are
// not valid prefixed uuids are not forwarded.
func RequestIDTransport(ids UIDHandler) TransportMiddleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(r *http.Request) (*http.Response, error) {
			requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
			if r.Header.Get("X-Request-ID") != "" || !ids.IsValid(requestID, RequestIDPrefix) {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("X-Request-ID", requestID)
			return next.RoundTrip(r)
		})
	}
}

// LoggingTransport measures the duration of each round trip and logs its result.
func LoggingTransport(logger *zap.Logger) TransportMiddleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
			resp, err := next.RoundTrip(r)
			if err != nil {
				logger.Debug("catalog request failed",
					zap.String("request.id", requestID),
					zap.String("request.url", r.URL.String()),
					zap.Duration("request.duration", time.Since(start)),
					zap.Error(err),
				)
				return nil, err
			}
			logger.Debug("catalog response",
				zap.String("request.id", requestID),
				zap.String("request.url", r.URL.String()),
				zap.Int("response.status", resp.StatusCode),
				zap.Duration("request.duration", time.Since(start)),
			)
			return resp, nil
		})
	}
}

// PanicRecoveryTransport turns a panic during the round trip into an error
// and an error log for further analysis.
func PanicRecoveryTransport(logger *zap.Logger) TransportMiddleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(r *http.Request) (resp *http.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
					logger.Error("panic occurred", zap.String("request.id", requestID), zap.Any("error", rec))
					resp, err = nil, fmt.Errorf("round trip panicked: %v", rec)
				}
			}()
			return next.RoundTrip(r)
		})
	}
}
