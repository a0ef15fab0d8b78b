package handler

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/app"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/middleware"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/response"
)

// UploadLimits mirrors the storage config: size cap, extension allow-list and
// per-request file count, enforced at the boundary before anything touches
// disk.
type UploadLimits struct {
	MaxBytes    int64
	AllowedExts []string
	MaxFiles    int
}

type SpaceHandler struct {
	spaceService *app.SpaceService
	limits       UploadLimits
}

func NewSpaceHandler(spaceService *app.SpaceService, limits UploadLimits) *SpaceHandler {
	return &SpaceHandler{spaceService: spaceService, limits: limits}
}

func (h *SpaceHandler) Create(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}

	headers, ok := h.formFiles(c)
	if !ok {
		return
	}
	files, cleanup, ok := h.openFiles(c, headers)
	if !ok {
		return
	}
	defer cleanup()

	space, err := h.spaceService.Create(c.Request.Context(), ident, app.CreateSpaceInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		TaskType:    c.PostForm("taskType"),
		Files:       files,
	})
	if err != nil {
		writeServiceError(c, "create space", err)
		return
	}

	response.Created(c, gin.H{
		"space_id": space.ID,
	})
}

func (h *SpaceHandler) List(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}

	spaces, err := h.spaceService.List(ident)
	if err != nil {
		writeServiceError(c, "list spaces", err)
		return
	}

	response.OK(c, gin.H{
		"spaces": spaces,
	})
}

func (h *SpaceHandler) Upload(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}
	spaceID, ok := h.spaceID(c)
	if !ok {
		return
	}

	headers, ok := h.formFiles(c)
	if !ok {
		return
	}
	files, cleanup, ok := h.openFiles(c, headers)
	if !ok {
		return
	}
	defer cleanup()

	space, err := h.spaceService.Upload(c.Request.Context(), ident, spaceID, files)
	if err != nil {
		writeServiceError(c, "upload files", err)
		return
	}

	response.OK(c, gin.H{
		"space": space,
	})
}

func (h *SpaceHandler) Details(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}
	spaceID, ok := h.spaceID(c)
	if !ok {
		return
	}

	view, err := h.spaceService.GetDetails(c.Request.Context(), ident, spaceID)
	if err != nil {
		writeServiceError(c, "fetch space details", err)
		return
	}

	response.OK(c, gin.H{
		"space": view,
	})
}

func (h *SpaceHandler) Documents(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}
	spaceID, ok := h.spaceID(c)
	if !ok {
		return
	}

	docs, err := h.spaceService.ListDocuments(ident, spaceID)
	if err != nil {
		writeServiceError(c, "list documents", err)
		return
	}

	response.OK(c, gin.H{
		"documents": docs,
	})
}

func (h *SpaceHandler) DownloadResume(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}
	spaceID, ok := h.spaceID(c)
	if !ok {
		return
	}

	resume, err := h.spaceService.ResumeDownload(ident, spaceID)
	if err != nil {
		writeServiceError(c, "download resume", err)
		return
	}

	// Stream errors past this point surface as a broken transfer, not as one
	// of the pre-checked statuses.
	c.FileAttachment(resume.Path, resume.Filename)
}

func (h *SpaceHandler) spaceID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid space id")
		return 0, false
	}
	return uint(id), true
}

func (h *SpaceHandler) formFiles(c *gin.Context) ([]*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "at least one file is required")
		return nil, false
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "at least one file is required")
		return nil, false
	}
	if h.limits.MaxFiles > 0 && len(headers) > h.limits.MaxFiles {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "too many files in one request")
		return nil, false
	}
	for _, header := range headers {
		if h.limits.MaxBytes > 0 && header.Size > h.limits.MaxBytes {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
			return nil, false
		}
		if !h.extAllowed(header.Filename) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file type not allowed")
			return nil, false
		}
	}
	return headers, true
}

func (h *SpaceHandler) openFiles(c *gin.Context, headers []*multipart.FileHeader) ([]app.Upload, func(), bool) {
	uploads := make([]app.Upload, 0, len(headers))
	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			cleanup()
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read uploaded file failed")
			return nil, nil, false
		}
		opened = append(opened, f)
		uploads = append(uploads, app.Upload{Name: header.Filename, Content: f})
	}
	return uploads, cleanup, true
}

func (h *SpaceHandler) extAllowed(filename string) bool {
	if len(h.limits.AllowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range h.limits.AllowedExts {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
