package handler

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notewise/notewise/internal/model"
	"github.com/notewise/notewise/internal/pkg/errcode"
	"github.com/notewise/notewise/internal/pkg/response"
	"github.com/notewise/notewise/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	note, err := h.notes.Create(c.Request.Context(), getUserID(c), req.Title, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

// Upload accepts a multipart PDF, extracts its text, and creates a note from
// it. The title defaults to the file name.
func (h *NoteHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		response.Error(c, errcode.ErrInvalidFile, "only pdf files are supported")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "read upload failed")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "read upload failed")
		return
	}
	note, err := h.notes.CreateFromPDF(c.Request.Context(), getUserID(c), c.PostForm("title"), fileHeader.Filename, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	limit := parseUintQuery(c, "limit", 20, 100)
	offset := parseUintQuery(c, "offset", 0, 0)
	notes, err := h.notes.List(c.Request.Context(), getUserID(c), c.Query("q"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	response.Success(c, gin.H{"items": notes})
}

func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	var update service.NoteUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	note, err := h.notes.Update(c.Request.Context(), getUserID(c), c.Param("id"), update)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func parseUintQuery(c *gin.Context, name string, fallback, max uint) uint {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fallback
	}
	result := uint(value)
	if max > 0 && result > max {
		return max
	}
	return result
}
