// Package pipeline sequences one uploaded document through text extraction,
// translation, structured extraction, geocoding, and persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vanadhikar/claimsd/constants"
	"github.com/vanadhikar/claimsd/internal/common"
	"github.com/vanadhikar/claimsd/internal/entity"
	"github.com/vanadhikar/claimsd/internal/extract"
	"github.com/vanadhikar/claimsd/internal/geocode"
	"github.com/vanadhikar/claimsd/internal/llm"
	"github.com/vanadhikar/claimsd/internal/repository"
)

// TextExtractor pulls the text layer out of a PDF.
type TextExtractor interface {
	Extract(content []byte) (extract.Result, error)
}

// Geocoder resolves a (village, tehsil, district) triple. It never errors;
// failures come back as an unresolved Result.
type Geocoder interface {
	Resolve(ctx context.Context, village, tehsil, district string) geocode.Result
}

type Config struct {
	UploadDir string
}

// Processor coordinates the upload pipeline. All collaborators are injected;
// there is no ambient state.
type Processor struct {
	logger     *slog.Logger
	cfg        Config
	extractor  TextExtractor
	translator llm.Translator
	fields     llm.FieldExtractor
	geocoder   Geocoder
	claims     repository.ClaimRepository
}

func NewProcessor(
	logger *slog.Logger,
	cfg Config,
	extractor TextExtractor,
	translator llm.Translator,
	fields llm.FieldExtractor,
	geocoder Geocoder,
	claims repository.ClaimRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	return &Processor{
		logger:     logger,
		cfg:        cfg,
		extractor:  extractor,
		translator: translator,
		fields:     fields,
		geocoder:   geocoder,
		claims:     claims,
	}
}

// Result is the outcome of one processed upload. DBInserted is a soft flag:
// the file save and snapshot are considered successful even when the
// database step failed.
type Result struct {
	Claim        *entity.Claim
	SnapshotName string
	DBInserted   bool
	Degradation  llm.Degradation
}

// ProcessUpload runs the full pipeline for one uploaded document.
//
// Input errors (unreadable PDF, no extractable text) return
// common.ErrInvalidInput / common.ErrNoExtractableText with nothing
// persisted. Adapter degradations never abort: an unparsable extraction
// proceeds as a sentinel record and a failed geocode proceeds unlocated.
// A persistence failure is reported via Result.DBInserted, not an error.
func (p *Processor) ProcessUpload(ctx context.Context, filename string, data []byte) (*Result, error) {
	start := time.Now()

	extracted, err := p.extractor.Extract(data)
	if err != nil {
		return nil, common.NewAppError("BAD_UPLOAD", "unable to read PDF", common.ErrInvalidInput)
	}
	if extracted.Text == "" {
		return nil, common.ErrNoExtractableText
	}

	translated, err := p.translator.Translate(ctx, extracted.Text)
	if err != nil {
		return nil, common.WrapError(err, "translate")
	}
	if translated.Text == "" {
		// the model produced nothing usable from the text layer
		return nil, common.ErrNoExtractableText
	}

	extraction, err := p.fields.ExtractFields(ctx, translated.Text)
	if err != nil {
		return nil, common.WrapError(err, "extract fields")
	}

	claim := claimFromExtraction(extraction)
	claim.DocID = newDocID()

	loc := p.geocoder.Resolve(ctx, claim.VillageName, claim.TehsilName, claim.DistrictName)
	claim.Location = loc.Location

	p.logger.Info("pipeline.extract.ok",
		"doc_id", claim.DocID,
		"pages", extracted.Pages,
		"community", claim.CommunityName,
		"claimant", claim.ClaimPerson,
		"status", claim.DocumentStatus,
		"geocoded", loc.Resolved,
		"degradation", string(extraction.Degradation),
	)

	snapshotName, err := p.persistArtifacts(claim, filename, data)
	if err != nil {
		return nil, err
	}

	// the DB step is soft: snapshot and raw file stand even when it fails
	dbInserted := true
	communityID, err := p.claims.InsertClaim(ctx, claim)
	if err != nil {
		p.logger.Error("pipeline.db_insert.failed", "doc_id", claim.DocID, "error", err)
		dbInserted = false
	} else {
		claim.CommunityID = communityID
	}

	p.logger.Info("pipeline.done",
		"doc_id", claim.DocID,
		"db_inserted", dbInserted,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{
		Claim:        claim,
		SnapshotName: snapshotName,
		DBInserted:   dbInserted,
		Degradation:  extraction.Degradation,
	}, nil
}

// persistArtifacts writes the raw upload and the JSON snapshot, both keyed
// by the generated doc id so reused filenames cannot collide.
func (p *Processor) persistArtifacts(claim *entity.Claim, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(p.cfg.UploadDir, 0o755); err != nil {
		return "", common.WrapError(err, "create upload dir")
	}

	ext := filepath.Ext(filename)
	if !constants.IsPDFExt(ext) {
		ext = ".pdf"
	}
	rawName := strconv.FormatInt(claim.DocID, 10) + ext
	if err := os.WriteFile(filepath.Join(p.cfg.UploadDir, rawName), data, 0o644); err != nil {
		return "", common.WrapError(err, "save upload")
	}

	snapshotName := strconv.FormatInt(claim.DocID, 10) + constants.SnapshotExt
	snapshot, err := json.MarshalIndent(claim, "", "  ")
	if err != nil {
		return "", common.WrapError(err, "encode snapshot")
	}
	if err := os.WriteFile(filepath.Join(p.cfg.UploadDir, snapshotName), snapshot, 0o644); err != nil {
		return "", common.WrapError(err, "write snapshot")
	}
	return snapshotName, nil
}

// claimFromExtraction maps an extraction result onto a claim. A degraded
// result keeps only the raw model output under the sentinel field; the
// pipeline proceeds with it rather than aborting.
func claimFromExtraction(res llm.ExtractionResult) *entity.Claim {
	if res.Degradation == llm.DegradationUnparsableJSON {
		return &entity.Claim{RawOutput: res.Raw}
	}
	f := res.Fields
	status := f.DocumentStatus
	if canon, ok := constants.Canonicalize(status); ok {
		status = string(canon)
	}
	return &entity.Claim{
		CommunityName:  f.CommunityName,
		ClaimPerson:    f.ClaimPerson,
		Gender:         f.Gender,
		Occupation:     f.Occupation,
		DocumentStatus: status,
		VillageName:    f.VillageName,
		TehsilName:     f.TehsilName,
		DistrictName:   f.DistrictName,
	}
}

// newDocID takes the 8 leading decimal digits of a random 128-bit value.
// Not globally unique, just practically unlikely to collide.
func newDocID() int64 {
	u := uuid.New()
	dec := new(big.Int).SetBytes(u[:]).String()
	if len(dec) > 8 {
		dec = dec[:8]
	}
	id, err := strconv.ParseInt(dec, 10, 64)
	if err != nil {
		// unreachable: 8 decimal digits always parse
		panic(fmt.Sprintf("doc id: %v", err))
	}
	return id
}
