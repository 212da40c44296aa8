package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

var noteColumns = []string{"id", "user_id", "title", "content", "source_type", "original_filename", "content_hash", "char_count", "ctime", "mtime"}

type NoteRepo struct {
	db *DB
}

func NewNoteRepo(db *DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	data := map[string]interface{}{
		"id":                note.ID,
		"user_id":           note.UserID,
		"title":             note.Title,
		"content":           note.Content,
		"source_type":       note.SourceType,
		"original_filename": note.OriginalFilename,
		"content_hash":      note.ContentHash,
		"char_count":        note.CharCount,
		"ctime":             note.Ctime,
		"mtime":             note.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("notes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *NoteRepo) Update(ctx context.Context, note *model.Note) error {
	where := map[string]interface{}{
		"id": note.ID,
	}
	update := map[string]interface{}{
		"title":        note.Title,
		"content":      note.Content,
		"content_hash": note.ContentHash,
		"char_count":   note.CharCount,
		"mtime":        note.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("notes", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, noteID string) (*model.Note, error) {
	where := map[string]interface{}{
		"id": noteID,
	}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanNote(rows)
}

func (r *NoteRepo) List(ctx context.Context, userID string, limit, offset uint) ([]model.Note, error) {
	where := map[string]interface{}{
		"_orderby": "ctime desc",
		"_limit":   []uint{offset, limit},
	}
	if userID != "" {
		where["user_id"] = userID
	}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (r *NoteRepo) SearchLike(ctx context.Context, userID, query string, limit, offset uint) ([]model.Note, error) {
	where := map[string]interface{}{
		"_or": []map[string]interface{}{
			{"title like": "%" + query + "%"},
			{"content like": "%" + query + "%"},
		},
		"_orderby": "ctime desc",
		"_limit":   []uint{offset, limit},
	}
	if userID != "" {
		where["user_id"] = userID
	}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func (r *NoteRepo) Delete(ctx context.Context, noteID string) error {
	where := map[string]interface{}{
		"id": noteID,
	}
	sqlStr, args, err := builder.BuildDelete("notes", where)
	if err != nil {
		return err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

type noteScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(rows noteScanner) (*model.Note, error) {
	var note model.Note
	if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.SourceType, &note.OriginalFilename, &note.ContentHash, &note.CharCount, &note.Ctime, &note.Mtime); err != nil {
		return nil, err
	}
	return &note, nil
}
