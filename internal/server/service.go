// Package server exposes the claim pipeline and query endpoints over HTTP.
package server

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vanadhikar/claimsd/constants"
	"github.com/vanadhikar/claimsd/internal/export"
	"github.com/vanadhikar/claimsd/internal/pipeline"
	"github.com/vanadhikar/claimsd/internal/repository"
	"github.com/vanadhikar/claimsd/internal/schemes"
)

// UploadProcessor is what the upload handler needs from the pipeline.
type UploadProcessor interface {
	ProcessUpload(ctx context.Context, filename string, data []byte) (*pipeline.Result, error)
}

// Pinger checks the database for the health endpoint.
type Pinger func(ctx context.Context) error

// Service bundles the handlers' dependencies. Everything is injected from
// main; handlers hold no package-level state.
type Service struct {
	logger      *slog.Logger
	pipeline    UploadProcessor
	claims      repository.ClaimRepository
	communities repository.CommunityRepository
	schemes     *schemes.Lookup
	exporter    *export.Service
	ping        Pinger
}

func NewService(
	logger *slog.Logger,
	proc UploadProcessor,
	claims repository.ClaimRepository,
	communities repository.CommunityRepository,
	lookup *schemes.Lookup,
	exporter *export.Service,
	ping Pinger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:      logger,
		pipeline:    proc,
		claims:      claims,
		communities: communities,
		schemes:     lookup,
		exporter:    exporter,
		ping:        ping,
	}
}

// NewRouter wires the routes. CORS is wide open: the dashboard is served
// from a separate origin.
func NewRouter(svc *Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))
	r.MaxMultipartMemory = constants.MaxUploadBytes

	r.GET("/upload", svc.handleUploadInfo)
	r.POST("/upload", svc.handleUpload)
	r.GET("/map-data", svc.handleMapData)
	r.GET("/api/summary", svc.handleSummary)
	r.GET("/api/search", svc.handleSearch)
	r.GET("/api/occupations", svc.handleOccupations)
	r.GET("/api/document/:doc_id", svc.handleDocument)
	r.GET("/api/export", svc.handleExport)
	r.GET("/healthz", svc.handleHealthz)
	return r
}
