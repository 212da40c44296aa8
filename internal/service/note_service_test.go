package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notewise/notewise/internal/filestore"
	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

type stubNoteStore struct {
	notes map[string]*model.Note
}

func newStubNoteStore() *stubNoteStore {
	return &stubNoteStore{notes: map[string]*model.Note{}}
}

func (s *stubNoteStore) Create(ctx context.Context, note *model.Note) error {
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *stubNoteStore) Update(ctx context.Context, note *model.Note) error {
	if _, ok := s.notes[note.ID]; !ok {
		return appErr.ErrNotFound
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *stubNoteStore) GetByID(ctx context.Context, noteID string) (*model.Note, error) {
	note, ok := s.notes[noteID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (s *stubNoteStore) List(ctx context.Context, userID string, limit, offset uint) ([]model.Note, error) {
	var out []model.Note
	for _, note := range s.notes {
		if userID == "" || note.UserID == userID {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (s *stubNoteStore) SearchLike(ctx context.Context, userID, query string, limit, offset uint) ([]model.Note, error) {
	var out []model.Note
	for _, note := range s.notes {
		if userID != "" && note.UserID != userID {
			continue
		}
		if strings.Contains(note.Title, query) || strings.Contains(note.Content, query) {
			out = append(out, *note)
		}
	}
	return out, nil
}

func (s *stubNoteStore) Delete(ctx context.Context, noteID string) error {
	if _, ok := s.notes[noteID]; !ok {
		return appErr.ErrNotFound
	}
	delete(s.notes, noteID)
	return nil
}

type stubCascade struct {
	deleted [][]string
}

func (s *stubCascade) DeleteByNoteIDs(ctx context.Context, noteIDs []string) error {
	s.deleted = append(s.deleted, noteIDs)
	return nil
}

type stubFileStore struct {
	saved map[string]int64
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{saved: map[string]int64{}}
}

func (s *stubFileStore) Type() string { return "stub" }

func (s *stubFileStore) URL(key, baseURL string) string { return key }

func (s *stubFileStore) Save(ctx context.Context, key string, r filestore.ReadSeekCloser, size int64) error {
	s.saved[key] = size
	return nil
}

func (s *stubFileStore) Open(ctx context.Context, key string) (filestore.ReadSeekCloser, error) {
	return nil, appErr.ErrNotFound
}

func newTestNoteService(store *stubNoteStore, cascade *stubCascade) *NoteService {
	return NewNoteService(store, cascade, newStubFileStore(), 1000, 1<<20)
}

func TestCreateNote(t *testing.T) {
	store := newStubNoteStore()
	svc := newTestNoteService(store, &stubCascade{})

	note, err := svc.Create(context.Background(), "u1", "  My Note  ", "Some content.")
	require.NoError(t, err)
	require.Equal(t, "My Note", note.Title)
	require.Equal(t, "u1", note.UserID)
	require.Equal(t, model.NoteSourceText, note.SourceType)
	require.Equal(t, len("Some content."), note.CharCount)

	sum := sha256.Sum256([]byte("Some content."))
	require.Equal(t, hex.EncodeToString(sum[:]), note.ContentHash)
	require.Len(t, store.notes, 1)
}

func TestCreateNoteValidation(t *testing.T) {
	svc := newTestNoteService(newStubNoteStore(), &stubCascade{})

	_, err := svc.Create(context.Background(), "u1", "", "content")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Create(context.Background(), "u1", "title", "  ")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = svc.Create(context.Background(), "u1", "title", strings.Repeat("x", 1001))
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestGetNoteOwnership(t *testing.T) {
	store := newStubNoteStore()
	svc := newTestNoteService(store, &stubCascade{})
	note, err := svc.Create(context.Background(), "u1", "title", "content")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u2", note.ID)
	require.ErrorIs(t, err, appErr.ErrForbidden)

	got, err := svc.Get(context.Background(), "u1", note.ID)
	require.NoError(t, err)
	require.Equal(t, note.ID, got.ID)
}

func TestUpdateNotePartial(t *testing.T) {
	store := newStubNoteStore()
	svc := newTestNoteService(store, &stubCascade{})
	note, err := svc.Create(context.Background(), "u1", "title", "old content")
	require.NoError(t, err)

	newContent := "new content"
	updated, err := svc.Update(context.Background(), "u1", note.ID, NoteUpdate{Content: &newContent})
	require.NoError(t, err)
	require.Equal(t, "title", updated.Title)
	require.Equal(t, "new content", updated.Content)
	require.NotEqual(t, note.ContentHash, updated.ContentHash)
	require.Equal(t, len(newContent), updated.CharCount)
}

func TestDeleteNoteCascades(t *testing.T) {
	store := newStubNoteStore()
	cascade := &stubCascade{}
	svc := newTestNoteService(store, cascade)
	note, err := svc.Create(context.Background(), "u1", "title", "content")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "u1", note.ID))
	require.Len(t, cascade.deleted, 1)
	require.Equal(t, []string{note.ID}, cascade.deleted[0])
	require.Empty(t, store.notes)
}

func TestCreateFromPDFRejectsOversized(t *testing.T) {
	svc := NewNoteService(newStubNoteStore(), &stubCascade{}, newStubFileStore(), 1000, 10)
	_, err := svc.CreateFromPDF(context.Background(), "u1", "", "big.pdf", make([]byte, 11))
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestCreateFromPDFRejectsGarbage(t *testing.T) {
	svc := newTestNoteService(newStubNoteStore(), &stubCascade{})
	_, err := svc.CreateFromPDF(context.Background(), "u1", "", "junk.pdf", []byte("not a pdf"))
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
