package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Book represents a catalog entry as returned by the search endpoint.
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedDate string `json:"published_date"`
	ISBN          string `json:"isbn"`
	Availability  bool   `json:"availability"`
}

// BookFetcher defines the remote search operation.
type BookFetcher interface {
	Search(ctx context.Context, query string) ([]Book, error)
}

// bookPayload mirrors Book with lenient id and availability fields. Some
// catalog servers encode every value as a string.
type bookPayload struct {
	ID            flexInt  `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Genre         string   `json:"genre"`
	PublishedDate string   `json:"published_date"`
	ISBN          string   `json:"isbn"`
	Availability  flexBool `json:"availability"`
}

// UnmarshalJSON accepts both native and string encoded id and availability.
func (b *Book) UnmarshalJSON(data []byte) error {
	var p bookPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Book{
		ID:            int64(p.ID),
		Title:         p.Title,
		Author:        p.Author,
		Genre:         p.Genre,
		PublishedDate: p.PublishedDate,
		ISBN:          p.ISBN,
		Availability:  bool(p.Availability),
	}
	return nil
}

type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid book id %s: %w", data, err)
	}
	*f = flexInt(n)
	return nil
}

type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseBool(string(data))
	if err != nil {
		return fmt.Errorf("invalid book availability %s: %w", data, err)
	}
	*f = flexBool(v)
	return nil
}
