// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"github.com/mixtape-labs/mixtape/internal/services"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Calls records the operation names invoked, in order.
type MockCatalog struct {
	SearchResult *services.TrackSummary
	SearchErr    error
	RecsResult   []services.TrackSummary
	RecsErr      error
	TrackResult  *services.TrackSummary
	TrackErr     error
	Calls        []string
}

func (m *MockCatalog) SearchTrack(ctx context.Context, artist, title string) (*services.TrackSummary, error) {
	m.Calls = append(m.Calls, "SearchTrack")
	return m.SearchResult, m.SearchErr
}

func (m *MockCatalog) Recommendations(ctx context.Context, seeds services.Seeds, limit, maxPopularity int) ([]services.TrackSummary, error) {
	m.Calls = append(m.Calls, "Recommendations")
	return m.RecsResult, m.RecsErr
}

func (m *MockCatalog) Track(ctx context.Context, id string) (*services.TrackSummary, error) {
	m.Calls = append(m.Calls, "Track")
	return m.TrackResult, m.TrackErr
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
