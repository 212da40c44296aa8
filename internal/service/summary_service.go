package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
	"github.com/notewise/notewise/internal/summarizer"
)

// SummaryStore is what SummaryService needs from the summaries table.
type SummaryStore interface {
	Create(ctx context.Context, summary *model.Summary) error
	FindExisting(ctx context.Context, noteID, length, kind string) (*model.Summary, error)
	GetByID(ctx context.Context, summaryID string) (*model.Summary, error)
	ListByNoteID(ctx context.Context, noteID string) ([]model.Summary, error)
	Delete(ctx context.Context, summaryID string) error
}

// SummaryRequest carries the caller-supplied generation parameters.
// LineCount nil means the length is derived from the content size.
type SummaryRequest struct {
	LineCount       *int   `json:"line_count"`
	SummaryType     string `json:"summary_type"`
	SummaryStyle    string `json:"summary_style"`
	Provider        string `json:"provider"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

// SummaryService generates summaries and reuses stored ones. Reuse is keyed on
// (note id, length descriptor, kind); the style is intentionally not part of
// the key, so a repeat request with a different style returns the stored copy.
type SummaryService struct {
	store   SummaryStore
	ai      summarizer.Config
	timeout time.Duration
	cache   *expirable.LRU[string, *model.Summary]
}

func NewSummaryService(store SummaryStore, ai summarizer.Config, timeout time.Duration) *SummaryService {
	return &SummaryService{
		store:   store,
		ai:      ai,
		timeout: timeout,
		cache:   expirable.NewLRU[string, *model.Summary](512, nil, 10*time.Minute),
	}
}

// Generate returns a summary for the note, either a reused stored one or a
// freshly generated and persisted one.
func (s *SummaryService) Generate(ctx context.Context, note *model.Note, req SummaryRequest) (*model.Summary, error) {
	if strings.TrimSpace(note.Content) == "" {
		return nil, fmt.Errorf("%w: note has no content to summarize", appErr.ErrEmptyContent)
	}
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	length := lengthDescriptor(req.LineCount)
	key := summaryCacheKey(note.ID, length, req.SummaryType)
	if !req.ForceRegenerate {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
		existing, err := s.store.FindExisting(ctx, note.ID, length, req.SummaryType)
		if err == nil {
			s.cache.Add(key, existing)
			return existing, nil
		}
		if !appErr.IsNotFound(err) {
			return nil, err
		}
	}

	backend := summarizer.New(req.Provider, s.ai)
	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	result, err := backend.Summarize(genCtx, summarizer.PlainText(note.Content), summarizer.Request{
		LineCount: req.LineCount,
		Kind:      summarizer.Kind(req.SummaryType),
		Style:     summarizer.Style(req.SummaryStyle),
	})
	if err != nil {
		logutil.GetLogger(ctx).Error("generate summary failed",
			zap.String("note_id", note.ID), zap.String("provider", backend.Name()), zap.Error(err))
		return nil, err
	}
	elapsed := time.Since(start).Milliseconds()
	ratio := compressionRatio(len(note.Content), len(result.Summary))

	summary := &model.Summary{
		ID:               uuid.NewString(),
		NoteID:           note.ID,
		Content:          result.Summary,
		SummaryType:      req.SummaryType,
		SummaryLength:    length,
		AIProvider:       result.Provider,
		AIModel:          result.Model,
		GenerationTimeMs: elapsed,
		TokenCount:       result.Tokens,
		CompressionRatio: &ratio,
		Ctime:            time.Now().UnixMilli(),
	}
	if err := s.store.Create(ctx, summary); err != nil {
		return nil, err
	}
	s.cache.Add(key, summary)
	logutil.GetLogger(ctx).Info("summary generated",
		zap.String("note_id", note.ID),
		zap.String("summary_id", summary.ID),
		zap.String("provider", result.Provider),
		zap.String("model", result.Model),
		zap.Int64("elapsed_ms", elapsed))
	return summary, nil
}

// FindStored returns the stored summary matching the request without
// generating anything. Used by the async submit path to short-circuit jobs
// whose result already exists.
func (s *SummaryService) FindStored(ctx context.Context, noteID string, req SummaryRequest) (*model.Summary, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	length := lengthDescriptor(req.LineCount)
	key := summaryCacheKey(noteID, length, req.SummaryType)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	existing, err := s.store.FindExisting(ctx, noteID, length, req.SummaryType)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, existing)
	return existing, nil
}

func (s *SummaryService) ListForNote(ctx context.Context, noteID string) ([]model.Summary, error) {
	return s.store.ListByNoteID(ctx, noteID)
}

func (s *SummaryService) Get(ctx context.Context, summaryID string) (*model.Summary, error) {
	return s.store.GetByID(ctx, summaryID)
}

func (s *SummaryService) Delete(ctx context.Context, summaryID string) error {
	summary, err := s.store.GetByID(ctx, summaryID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, summaryID); err != nil {
		return err
	}
	s.cache.Remove(summaryCacheKey(summary.NoteID, summary.SummaryLength, summary.SummaryType))
	return nil
}

func normalizeRequest(req SummaryRequest) (SummaryRequest, error) {
	if req.SummaryType == "" {
		req.SummaryType = string(summarizer.KindSummary)
	}
	if req.SummaryStyle == "" {
		req.SummaryStyle = string(summarizer.StyleBestFit)
	}
	switch summarizer.Kind(req.SummaryType) {
	case summarizer.KindSummary, summarizer.KindKeyPoints, summarizer.KindFlashcards:
	default:
		return req, fmt.Errorf("%w: unknown summary_type %q", appErr.ErrInvalid, req.SummaryType)
	}
	switch summarizer.Style(req.SummaryStyle) {
	case summarizer.StyleBestFit, summarizer.StyleTechnical, summarizer.StyleCasual:
	default:
		return req, fmt.Errorf("%w: unknown summary_style %q", appErr.ErrInvalid, req.SummaryStyle)
	}
	if req.LineCount != nil && (*req.LineCount < 1 || *req.LineCount > 200) {
		return req, fmt.Errorf("%w: line_count must be between 1 and 200", appErr.ErrInvalid)
	}
	return req, nil
}

func lengthDescriptor(lineCount *int) string {
	if lineCount == nil {
		return model.SummaryLengthAuto
	}
	return strconv.Itoa(*lineCount)
}

func summaryCacheKey(noteID, length, kind string) string {
	return noteID + "|" + length + "|" + kind
}

func compressionRatio(sourceLen, summaryLen int) float64 {
	if summaryLen == 0 {
		return 0
	}
	return math.Round(float64(sourceLen)/float64(summaryLen)*100) / 100
}
