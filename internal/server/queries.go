package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vanadhikar/claimsd/internal/common"
	"github.com/vanadhikar/claimsd/internal/entity"
)

func (s *Service) handleMapData(c *gin.Context) {
	points, err := s.claims.MapData(c.Request.Context())
	if err != nil {
		s.logger.Error("map-data query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if points == nil {
		points = []*entity.MapPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// handleSummary sums counters across all communities in the handler, not in
// storage.
func (s *Service) handleSummary(c *gin.Context) {
	communities, err := s.communities.ListAll(c.Request.Context())
	if err != nil {
		s.logger.Error("summary query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var sum entity.Summary
	for _, cm := range communities {
		sum.TotalClaims += cm.TotalClaims
		sum.TotalApproved += cm.TotalApproved
		sum.TotalRejected += cm.TotalRejected
		sum.TotalInProcess += cm.TotalInProcess
		sum.TotalDelayed += cm.TotalDelayed
	}
	c.JSON(http.StatusOK, sum)
}

func communityIDParam(c *gin.Context) (int64, bool) {
	raw := c.Query("community_id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Service) handleSearch(c *gin.Context) {
	id, ok := communityIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No community ID provided"})
		return
	}

	rows, err := s.claims.SearchByCommunity(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("search query failed", "community_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No documents found for this community"})
		return
	}

	// group by status; blank statuses bucket under "Claim"
	byStatus := make(map[string][]*entity.SearchRow)
	for _, row := range rows {
		status := row.DocumentStatus
		if status == "" {
			status = "Claim"
		}
		byStatus[status] = append(byStatus[status], row)
	}
	c.JSON(http.StatusOK, byStatus)
}

func (s *Service) handleOccupations(c *gin.Context) {
	id, ok := communityIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "community_id is required"})
		return
	}

	occupations, err := s.claims.DistinctOccupations(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("occupations query failed", "community_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, s.schemes.Match(occupations))
}

func (s *Service) handleDocument(c *gin.Context) {
	docID, err := strconv.ParseInt(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	claim, err := s.claims.GetByDocID(c.Request.Context(), docID)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	if err != nil {
		s.logger.Error("document query failed", "doc_id", docID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Service) handleExport(c *gin.Context) {
	id, ok := communityIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "community_id is required"})
		return
	}

	book, err := s.exporter.ExportClaimsXLSX(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("export failed", "community_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("claims-community-%d.xlsx", id)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", book)
}

func (s *Service) handleHealthz(c *gin.Context) {
	if err := s.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
