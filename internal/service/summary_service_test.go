package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
	"github.com/notewise/notewise/internal/summarizer"
)

type stubSummaryStore struct {
	mu        sync.Mutex
	records   []*model.Summary
	findCalls int
}

func (s *stubSummaryStore) Create(ctx context.Context, summary *model.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, summary)
	return nil
}

func (s *stubSummaryStore) FindExisting(ctx context.Context, noteID, length, kind string) (*model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.NoteID == noteID && r.SummaryLength == length && r.SummaryType == kind {
			return r, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *stubSummaryStore) GetByID(ctx context.Context, summaryID string) (*model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == summaryID {
			return r, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *stubSummaryStore) ListByNoteID(ctx context.Context, noteID string) ([]model.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Summary
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].NoteID == noteID {
			out = append(out, *s.records[i])
		}
	}
	return out, nil
}

func (s *stubSummaryStore) Delete(ctx context.Context, summaryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == summaryID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return appErr.ErrNotFound
}

func (s *stubSummaryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func newMockSummaryService(store *stubSummaryStore) *SummaryService {
	return NewSummaryService(store, summarizer.Config{Provider: "mock"}, time.Second)
}

func testNote(content string) *model.Note {
	return &model.Note{ID: "note-1", Title: "t", Content: content, CharCount: len(content)}
}

func TestGeneratePersistsSummary(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	two := 2

	summary, err := svc.Generate(context.Background(), testNote("Alpha. Beta. Gamma. Delta."), SummaryRequest{LineCount: &two})
	require.NoError(t, err)
	require.Equal(t, "Alpha. Beta.", summary.Content)
	require.Equal(t, "note-1", summary.NoteID)
	require.Equal(t, "2", summary.SummaryLength)
	require.Equal(t, "summary", summary.SummaryType)
	require.Equal(t, "mock", summary.AIProvider)
	require.NotNil(t, summary.TokenCount)
	require.Equal(t, 4, *summary.TokenCount)
	require.NotNil(t, summary.CompressionRatio)
	require.InDelta(t, 2.17, *summary.CompressionRatio, 0.001)
	require.GreaterOrEqual(t, summary.GenerationTimeMs, int64(0))
	require.Equal(t, 1, store.count())
}

func TestGenerateAutoLength(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	content := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 140))
	require.Greater(t, len(content), 5000)

	summary, err := svc.Generate(context.Background(), testNote(content), SummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, model.SummaryLengthAuto, summary.SummaryLength)
	require.NotEmpty(t, summary.Content)
}

func TestGenerateReusesCachedSummary(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := svc.Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, store.findCalls)

	second, err := svc.Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.count())
	// Second hit comes out of the in-memory cache, not the store.
	require.Equal(t, 1, store.findCalls)
}

func TestGenerateReusesStoredSummaryAcrossInstances(t *testing.T) {
	store := &stubSummaryStore{}
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := newMockSummaryService(store).Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)

	second, err := newMockSummaryService(store).Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.count())
}

func TestGenerateStyleNotPartOfReuseKey(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := svc.Generate(context.Background(), note, SummaryRequest{SummaryStyle: "technical"})
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), note, SummaryRequest{SummaryStyle: "casual"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.count())
}

func TestGenerateForceRegenerate(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := svc.Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), note, SummaryRequest{ForceRegenerate: true})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2, store.count())
}

func TestGenerateDistinctKindsGetDistinctSummaries(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := svc.Generate(context.Background(), note, SummaryRequest{SummaryType: "summary"})
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), note, SummaryRequest{SummaryType: "key_points"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2, store.count())
}

func TestGenerateRejectsEmptyContent(t *testing.T) {
	svc := newMockSummaryService(&stubSummaryStore{})
	_, err := svc.Generate(context.Background(), testNote("   \n "), SummaryRequest{})
	require.ErrorIs(t, err, appErr.ErrEmptyContent)
}

func TestGenerateValidatesRequest(t *testing.T) {
	svc := newMockSummaryService(&stubSummaryStore{})
	note := testNote("Alpha. Beta.")

	_, err := svc.Generate(context.Background(), note, SummaryRequest{SummaryType: "haiku"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Generate(context.Background(), note, SummaryRequest{SummaryStyle: "shouty"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	zero := 0
	_, err = svc.Generate(context.Background(), note, SummaryRequest{LineCount: &zero})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	big := 201
	_, err = svc.Generate(context.Background(), note, SummaryRequest{LineCount: &big})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestDeleteEvictsReuse(t *testing.T) {
	store := &stubSummaryStore{}
	svc := newMockSummaryService(store)
	note := testNote("Alpha. Beta. Gamma. Delta.")

	first, err := svc.Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), first.ID))

	second, err := svc.Generate(context.Background(), note, SummaryRequest{})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestLengthDescriptor(t *testing.T) {
	require.Equal(t, "auto", lengthDescriptor(nil))
	seven := 7
	require.Equal(t, "7", lengthDescriptor(&seven))
}

func TestCompressionRatio(t *testing.T) {
	require.Equal(t, 10.0, compressionRatio(1000, 100))
	require.Equal(t, 3.33, compressionRatio(1000, 300))
	require.Equal(t, 0.0, compressionRatio(1000, 0))
}
