package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/notewise/notewise/internal/model"
	"github.com/notewise/notewise/internal/pkg/errcode"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
	"github.com/notewise/notewise/internal/pkg/response"
	"github.com/notewise/notewise/internal/service"
)

type SummaryHandler struct {
	notes     *service.NoteService
	summaries *service.SummaryService
	jobs      *service.JobManager
}

func NewSummaryHandler(notes *service.NoteService, summaries *service.SummaryService, jobs *service.JobManager) *SummaryHandler {
	return &SummaryHandler{notes: notes, summaries: summaries, jobs: jobs}
}

// bindSummaryRequest decodes the request body, treating a missing body as a
// request for the defaults. Malformed JSON still fails the request.
func bindSummaryRequest(c *gin.Context) (service.SummaryRequest, bool) {
	var req service.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return req, false
	}
	return req, true
}

// Generate runs the full generation inline and blocks until the summary is
// ready. Large notes are better served by SubmitJob.
func (h *SummaryHandler) Generate(c *gin.Context) {
	req, ok := bindSummaryRequest(c)
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	summary, err := h.summaries.Generate(c.Request.Context(), note, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}

// SubmitJob queues a background generation and returns the job for polling.
// When a reusable summary already exists the job comes back completed
// immediately, without touching the AI provider.
func (h *SummaryHandler) SubmitJob(c *gin.Context) {
	req, ok := bindSummaryRequest(c)
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !req.ForceRegenerate {
		existing, err := h.summaries.FindStored(c.Request.Context(), note.ID, req)
		if err == nil {
			response.Success(c, h.jobs.SubmitCompleted(note.ID, existing))
			return
		}
		if !appErr.IsNotFound(err) {
			handleError(c, err)
			return
		}
	}
	response.Success(c, h.jobs.Submit(note, req))
}

func (h *SummaryHandler) JobStatus(c *gin.Context) {
	job, err := h.jobs.Get(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, job)
}

func (h *SummaryHandler) ListForNote(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	summaries, err := h.summaries.ListForNote(c.Request.Context(), note.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	if summaries == nil {
		summaries = []model.Summary{}
	}
	response.Success(c, gin.H{"items": summaries})
}

func (h *SummaryHandler) Get(c *gin.Context) {
	summary, err := h.summaries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *SummaryHandler) Delete(c *gin.Context) {
	if err := h.summaries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
