package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notewise/notewise/internal/filestore"
	"github.com/notewise/notewise/internal/model"
	"github.com/notewise/notewise/internal/pdf"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

type NoteStore interface {
	Create(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, noteID string) (*model.Note, error)
	List(ctx context.Context, userID string, limit, offset uint) ([]model.Note, error)
	SearchLike(ctx context.Context, userID, query string, limit, offset uint) ([]model.Note, error)
	Delete(ctx context.Context, noteID string) error
}

// NoteSummaryStore is the slice of the summaries table the note service needs
// for cascade deletes.
type NoteSummaryStore interface {
	DeleteByNoteIDs(ctx context.Context, noteIDs []string) error
}

type NoteService struct {
	notes       NoteStore
	summaries   NoteSummaryStore
	files       filestore.Store
	maxChars    int
	maxPDFBytes int64
}

func NewNoteService(notes NoteStore, summaries NoteSummaryStore, files filestore.Store, maxChars int, maxPDFBytes int64) *NoteService {
	return &NoteService{
		notes:       notes,
		summaries:   summaries,
		files:       files,
		maxChars:    maxChars,
		maxPDFBytes: maxPDFBytes,
	}
}

type NoteUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *NoteService) Create(ctx context.Context, userID, title, content string) (*model.Note, error) {
	title = strings.TrimSpace(title)
	if err := s.validate(title, content); err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	note := &model.Note{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Content:     content,
		SourceType:  model.NoteSourceText,
		ContentHash: contentHash(content),
		CharCount:   len(content),
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// CreateFromPDF extracts the text layer of an uploaded PDF, keeps the original
// bytes in the file store, and creates a note from the extracted text.
func (s *NoteService) CreateFromPDF(ctx context.Context, userID, title, filename string, data []byte) (*model.Note, error) {
	if int64(len(data)) > s.maxPDFBytes {
		return nil, fmt.Errorf("%w: pdf exceeds %d bytes", appErr.ErrInvalid, s.maxPDFBytes)
	}
	text, err := pdf.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if err := s.validate(title, text); err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	note := &model.Note{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            title,
		Content:          text,
		SourceType:       model.NoteSourcePDF,
		OriginalFilename: filepath.Base(filename),
		ContentHash:      contentHash(text),
		CharCount:        len(text),
		Ctime:            now,
		Mtime:            now,
	}
	key := note.ID + ".pdf"
	if err := s.files.Save(ctx, key, newByteFile(data), int64(len(data))); err != nil {
		logutil.GetLogger(ctx).Error("save uploaded pdf failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(note, userID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID, query string, limit, offset uint) ([]model.Note, error) {
	if query != "" {
		return s.notes.SearchLike(ctx, userID, query, limit, offset)
	}
	return s.notes.List(ctx, userID, limit, offset)
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, update NoteUpdate) (*model.Note, error) {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		note.Title = strings.TrimSpace(*update.Title)
	}
	if update.Content != nil {
		note.Content = *update.Content
		note.ContentHash = contentHash(note.Content)
		note.CharCount = len(note.Content)
	}
	if err := s.validate(note.Title, note.Content); err != nil {
		return nil, err
	}
	note.Mtime = time.Now().UnixMilli()
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note and all its summaries.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if err := s.summaries.DeleteByNoteIDs(ctx, []string{note.ID}); err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}

func (s *NoteService) validate(title, content string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", appErr.ErrInvalid)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", appErr.ErrInvalid)
	}
	if s.maxChars > 0 && len(content) > s.maxChars {
		return fmt.Errorf("%w: content exceeds %d characters", appErr.ErrInvalid, s.maxChars)
	}
	return nil
}

func checkOwnership(note *model.Note, userID string) error {
	if note.UserID != "" && note.UserID != userID {
		return appErr.ErrForbidden
	}
	return nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

type byteFile struct {
	*bytes.Reader
}

func newByteFile(data []byte) filestore.ReadSeekCloser {
	return &byteFile{Reader: bytes.NewReader(data)}
}

func (f *byteFile) Close() error {
	return nil
}
