package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestSetupTracing_Disabled ensures the no-op shutdown is returned.
func TestSetupTracing_Disabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), &Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

// TestHTTPCatalog_Spans ensures every search is recorded as a client span.
func TestHTTPCatalog_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	srv := startFakeCatalog(t, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if r.URL.Query().Get("search") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, referencePayload)
	})
	catalog := newTestCatalog(srv.URL)

	_, err := catalog.Search(context.Background(), "the")
	require.NoError(t, err)
	_, err = catalog.Search(context.Background(), "broken")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "catalog.search", s.Name())
	}
	assert.Contains(t, spans[0].Attributes(), attribute.String("search.query", "the"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("search.count", 2))
	assert.Contains(t, spans[0].Attributes(), attribute.String("request.id", "r:0"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.Int("http.status_code", http.StatusInternalServerError))
}

// TestIDsHandler ensures generated ids carry the prefix and validate.
func TestIDsHandler(t *testing.T) {
	h := NewIDsHandler()
	id := h.Generate(RequestIDPrefix)
	assert.True(t, h.IsValid(id, RequestIDPrefix))
	assert.False(t, h.IsValid(id, "b"))
	assert.False(t, h.IsValid("r:not-a-uuid", RequestIDPrefix))
	assert.NotEqual(t, id, h.Generate(RequestIDPrefix))
}
