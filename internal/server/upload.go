package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vanadhikar/claimsd/internal/common"
)

// uploadResponse is the POST /upload contract.
type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (s *Service) handleUploadInfo(c *gin.Context) {
	// the HTML form lives in the dashboard app; this is just a usage hint
	c.JSON(http.StatusOK, gin.H{
		"message": "POST a multipart form with a 'file' field containing the claim PDF",
	})
}

func (s *Service) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, uploadResponse{Success: false, Message: "No file part"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, uploadResponse{Success: false, Message: "No selected file"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, uploadResponse{Success: false, Message: "unable to read upload"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("upload close error", "error", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, uploadResponse{Success: false, Message: "unable to read upload"})
		return
	}

	res, err := s.pipeline.ProcessUpload(c.Request.Context(), fh.Filename, data)
	if err != nil {
		if errors.Is(err, common.ErrNoExtractableText) {
			c.JSON(http.StatusBadRequest, uploadResponse{
				Success: false, Message: "No extractable text found in PDF.",
			})
			return
		}
		if errors.Is(err, common.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, uploadResponse{Success: false, Message: err.Error()})
			return
		}
		s.logger.Error("upload pipeline failed", "filename", fh.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, uploadResponse{
			Success: false, Message: "processing failed",
		})
		return
	}

	dbStatus := "ok"
	if !res.DBInserted {
		dbStatus = "failed"
	}
	c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("Processed and saved as %s (DB insert: %s)", res.SnapshotName, dbStatus),
		Data:    res.Claim,
	})
}
