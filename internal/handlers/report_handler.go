package handlers

import (
	"errors"
	"fmt"
	"io"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/report"
	"jobnest_backend/internal/services"
	"jobnest_backend/internal/storage"
	"jobnest_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ReportHandler отдаёт сгенерированные PDF-отчёты их владельцам.
type ReportHandler struct {
	*BaseHandler
	storage        storage.Storage
	profileService services.ProfileService
}

func NewReportHandler(base *BaseHandler, s storage.Storage, profileService services.ProfileService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:    base,
		storage:        s,
		profileService: profileService,
	}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.Use(h.RequireAuth())
	{
		reports.GET("/:filename", h.DownloadReport)
	}
}

// DownloadReport streams the caller's latest report. Any other filename is
// reported as missing.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	filename := c.Param("filename")
	if err := h.validator.Var(filename, "required,max=128,startswith=assessment_,endswith=.pdf"); err != nil {
		apperrors.HandleError(c, apperrors.ErrReportNotFound)
		return
	}

	profile, err := h.profileService.GetJobSeekerProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if profile.ReportFile == nil || *profile.ReportFile != filename {
		apperrors.HandleError(c, apperrors.ErrReportNotFound)
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), report.StoragePath(filename))
	if errors.Is(err, storage.ErrNotFound) {
		apperrors.HandleError(c, apperrors.ErrReportNotFound)
		return
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Cache-Control", "private, max-age=0")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	} else {
		c.Header("Content-Disposition", "inline")
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// заголовки уже отправлены
		logger.CtxWithError(c.Request.Context(), "failed to stream report", err, "filename", filename)
	}
}
