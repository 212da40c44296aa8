package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
)

var summaryColumns = []string{"id", "note_id", "content", "summary_type", "summary_length", "ai_provider", "ai_model", "generation_time_ms", "token_count", "compression_ratio", "ctime"}

type SummaryRepo struct {
	db *DB
}

func NewSummaryRepo(db *DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

func (r *SummaryRepo) Create(ctx context.Context, summary *model.Summary) error {
	data := map[string]interface{}{
		"id":                 summary.ID,
		"note_id":            summary.NoteID,
		"content":            summary.Content,
		"summary_type":       summary.SummaryType,
		"summary_length":     summary.SummaryLength,
		"ai_provider":        summary.AIProvider,
		"ai_model":           summary.AIModel,
		"generation_time_ms": summary.GenerationTimeMs,
		"token_count":        summary.TokenCount,
		"compression_ratio":  summary.CompressionRatio,
		"ctime":              summary.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("summaries", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// FindExisting returns the newest summary for the cache key. The key is
// (note id, length descriptor, kind); style is deliberately not part of it.
func (r *SummaryRepo) FindExisting(ctx context.Context, noteID, length, kind string) (*model.Summary, error) {
	where := map[string]interface{}{
		"note_id":        noteID,
		"summary_length": length,
		"summary_type":   kind,
		"_orderby":       "ctime desc",
		"_limit":         []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("summaries", where, summaryColumns)
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
	return scanSummary(rows)
}

func (r *SummaryRepo) GetByID(ctx context.Context, summaryID string) (*model.Summary, error) {
	where := map[string]interface{}{
		"id": summaryID,
	}
	sqlStr, args, err := builder.BuildSelect("summaries", where, summaryColumns)
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
	return scanSummary(rows)
}

func (r *SummaryRepo) ListByNoteID(ctx context.Context, noteID string) ([]model.Summary, error) {
	where := map[string]interface{}{
		"note_id":  noteID,
		"_orderby": "ctime desc",
	}
	sqlStr, args, err := builder.BuildSelect("summaries", where, summaryColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = r.db.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var summaries []model.Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

func (r *SummaryRepo) Delete(ctx context.Context, summaryID string) error {
	where := map[string]interface{}{
		"id": summaryID,
	}
	sqlStr, args, err := builder.BuildDelete("summaries", where)
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

// DeleteByNoteIDs removes all summaries belonging to the given notes. Used
// when a note is deleted so its summaries do not orphan.
func (r *SummaryRepo) DeleteByNoteIDs(ctx context.Context, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM summaries WHERE note_id IN (?)", noteIDs)
	if err != nil {
		return err
	}
	query, args = r.db.Finalize(query, args)
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

type summaryScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(rows summaryScanner) (*model.Summary, error) {
	var summary model.Summary
	if err := rows.Scan(&summary.ID, &summary.NoteID, &summary.Content, &summary.SummaryType, &summary.SummaryLength, &summary.AIProvider, &summary.AIModel, &summary.GenerationTimeMs, &summary.TokenCount, &summary.CompressionRatio, &summary.Ctime); err != nil {
		return nil, err
	}
	return &summary, nil
}
