package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	SearchPath = "/api/data"
	// MaxPayloadSize caps the bytes read from one search response.
	MaxPayloadSize int64 = 8 << 20
)

var _ BookFetcher = (*httpCatalog)(nil) // ensure httpCatalog implements BookFetcher.

type httpCatalog struct {
	logger     *zap.Logger
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	idsHandler UIDHandler
	tracer     trace.Tracer
	maxPayload int64
}

// NewHTTPCatalog provides a BookFetcher backed by the remote search endpoint.
func NewHTTPCatalog(logger *zap.Logger, config *CatalogConfig, client *http.Client, ids UIDHandler) BookFetcher {
	if client == nil {
		client = GetHTTPClient(logger, config, ids)
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}
	return &httpCatalog{
		logger:     logger,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		client:     client,
		limiter:    limiter,
		idsHandler: ids,
		tracer:     otel.Tracer("github.com/jeamon/booksearch/catalog"),
		maxPayload: MaxPayloadSize,
	}
}

// GetHTTPClient provides the http client used to reach the catalog.
func GetHTTPClient(logger *zap.Logger, config *CatalogConfig, ids UIDHandler) *http.Client {
	middlewares := TransportMiddlewares{
		PanicRecoveryTransport(logger),
		LoggingTransport(logger),
		RequestIDTransport(ids),
	}
	return &http.Client{
		Timeout:   config.RequestTimeout,
		Transport: middlewares.Chain(http.DefaultTransport),
	}
}

// SearchURL builds the search endpoint address for query.
func SearchURL(baseURL, query string) string {
	v := url.Values{}
	v.Set("search", query)
	return strings.TrimRight(baseURL, "/") + SearchPath + "?" + v.Encode()
}

// Search retrieves the books matching query. Every failure wraps ErrFetchBooks.
func (hc *httpCatalog) Search(ctx context.Context, query string) ([]Book, error) {
	requestID := hc.idsHandler.Generate(RequestIDPrefix)
	ctx = context.WithValue(ctx, RequestIDContextKey, requestID)
	ctx, span := hc.tracer.Start(ctx, "catalog.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("search.query", query),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	books, err := hc.search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrFetchBooks, err)
	}
	span.SetAttributes(attribute.Int("search.count", len(books)))
	return books, nil
}

func (hc *httpCatalog) search(ctx context.Context, query string) ([]Book, error) {
	if err := hc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, SearchURL(hc.baseURL, query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(resp.StatusCode)
	}

	var books []Book
	if err := json.NewDecoder(io.LimitReader(resp.Body, hc.maxPayload)).Decode(&books); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}
