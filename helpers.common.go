package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// FetchFailedMessage is the only failure text ever shown to the user.
const FetchFailedMessage = "Failed to fetch books"

var ErrFetchBooks = errors.New("failed to fetch books")

type ContextKey string

const (
	RequestIDPrefix     string     = "r"
	RequestIDContextKey ContextKey = "request.id"
)

// statusError reports a non-success answer from the catalog.
type statusError int

func (s statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", int(s))
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
