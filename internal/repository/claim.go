package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanadhikar/claimsd/constants"
	"github.com/vanadhikar/claimsd/internal/common"
	"github.com/vanadhikar/claimsd/internal/entity"
)

type ClaimRepository interface {
	// InsertClaim runs community find-or-create, claim insert, and counter
	// update in one transaction, and returns the resolved community id.
	InsertClaim(ctx context.Context, claim *entity.Claim) (int64, error)

	MapData(ctx context.Context) ([]*entity.MapPoint, error)
	SearchByCommunity(ctx context.Context, communityID int64) ([]*entity.SearchRow, error)
	DistinctOccupations(ctx context.Context, communityID int64) ([]string, error)
	GetByDocID(ctx context.Context, docID int64) (*entity.Claim, error)
	ListByCommunity(ctx context.Context, communityID int64) ([]*entity.Claim, error)
}

type claimRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewClaimRepository(pool *pgxpool.Pool, logger *slog.Logger) ClaimRepository {
	return &claimRepository{pool: pool, logger: logger}
}

// counterColumn maps a canonical status to its community counter. Statuses
// outside the four recognized values bump total_claims only.
func counterColumn(status string) (string, bool) {
	s, ok := constants.Canonicalize(status)
	if !ok {
		return "", false
	}
	switch s {
	case constants.StatusInProcess:
		return "total_in_process", true
	case constants.StatusApproved:
		return "total_approved", true
	case constants.StatusRejected:
		return "total_rejected", true
	case constants.StatusDelayed:
		return "total_delayed", true
	}
	return "", false
}

func (r *claimRepository) InsertClaim(ctx context.Context, claim *entity.Claim) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, common.WrapError(err, "begin tx")
	}
	defer func() {
		// no-op when the tx already committed
		_ = tx.Rollback(ctx)
	}()

	communityID, err := findOrCreateCommunity(ctx, tx, claim.CommunityName, claim.Location)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO claims (
			doc_id, community_id, community_name, claim_person, gender,
			occupation, document_status, village_name, tehsil_name,
			district_name, latitude, longitude, raw_output
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		claim.DocID, communityID, claim.CommunityName, claim.ClaimPerson, claim.Gender,
		claim.Occupation, claim.DocumentStatus, claim.VillageName, claim.TehsilName,
		claim.DistrictName, claim.Location.Lat, claim.Location.Lon, claim.RawOutput,
	)
	if err != nil {
		r.logger.Error("failed to insert claim", "doc_id", claim.DocID, "error", err)
		return 0, common.WrapError(err, "insert claim")
	}

	update := `UPDATE communities SET total_claims = total_claims + 1 WHERE community_id = $1`
	if col, ok := counterColumn(claim.DocumentStatus); ok {
		update = fmt.Sprintf(
			`UPDATE communities SET total_claims = total_claims + 1, %s = %s + 1 WHERE community_id = $1`,
			col, col)
	}
	if _, err := tx.Exec(ctx, update, communityID); err != nil {
		r.logger.Error("failed to update counters", "community_id", communityID, "error", err)
		return 0, common.WrapError(err, "update counters")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, common.WrapError(err, "commit")
	}
	return communityID, nil
}

// findOrCreateCommunity resolves a community id by exact name inside the
// caller's transaction. The unique index on community_name plus ON CONFLICT
// closes the duplicate-row race between concurrent first-sighting uploads.
// Null coordinates default to 0 on first insert, matching the snapshot rule.
func findOrCreateCommunity(ctx context.Context, tx pgx.Tx, name string, loc entity.Location) (int64, error) {
	lat, lon := 0.0, 0.0
	if loc.Lat != nil {
		lat = *loc.Lat
	}
	if loc.Lon != nil {
		lon = *loc.Lon
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO communities (community_name, latitude, longitude)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_name) DO NOTHING
		RETURNING community_id`,
		name, lat, lon,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, common.WrapError(err, "insert community")
	}

	// conflict path: the row already exists
	err = tx.QueryRow(ctx,
		`SELECT community_id FROM communities WHERE community_name = $1`, name,
	).Scan(&id)
	if err != nil {
		return 0, common.WrapError(err, "lookup community")
	}
	return id, nil
}

func (r *claimRepository) MapData(ctx context.Context) ([]*entity.MapPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT claim_person, village_name, tehsil_name, district_name,
		       latitude, longitude, community_id, document_status
		FROM claims
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		r.logger.Error("failed to query map data", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.MapPoint
	for rows.Next() {
		var p entity.MapPoint
		if err := rows.Scan(&p.ClaimPerson, &p.VillageName, &p.TehsilName, &p.DistrictName,
			&p.Latitude, &p.Longitude, &p.CommunityID, &p.DocumentStatus); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *claimRepository) SearchByCommunity(ctx context.Context, communityID int64) ([]*entity.SearchRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doc_id, 'Document ' || doc_id::text, document_status, community_id
		FROM claims
		WHERE community_id = $1
		ORDER BY doc_id`, communityID)
	if err != nil {
		r.logger.Error("failed to search claims", "community_id", communityID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SearchRow
	for rows.Next() {
		var s entity.SearchRow
		if err := rows.Scan(&s.ID, &s.Name, &s.DocumentStatus, &s.CommunityID); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *claimRepository) DistinctOccupations(ctx context.Context, communityID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT occupation FROM claims
		WHERE community_id = $1 AND occupation <> ''`, communityID)
	if err != nil {
		r.logger.Error("failed to query occupations", "community_id", communityID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var occ string
		if err := rows.Scan(&occ); err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, rows.Err()
}

const claimColumns = `doc_id, community_id, community_name, claim_person, gender,
	occupation, document_status, village_name, tehsil_name, district_name,
	latitude, longitude, raw_output, created_at`

func scanClaim(row pgx.Row) (*entity.Claim, error) {
	var c entity.Claim
	err := row.Scan(&c.DocID, &c.CommunityID, &c.CommunityName, &c.ClaimPerson, &c.Gender,
		&c.Occupation, &c.DocumentStatus, &c.VillageName, &c.TehsilName, &c.DistrictName,
		&c.Location.Lat, &c.Location.Lon, &c.RawOutput, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *claimRepository) GetByDocID(ctx context.Context, docID int64) (*entity.Claim, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE doc_id = $1`, docID)
	c, err := scanClaim(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get claim", "doc_id", docID, "error", err)
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) ListByCommunity(ctx context.Context, communityID int64) ([]*entity.Claim, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE community_id = $1 ORDER BY created_at`, communityID)
	if err != nil {
		r.logger.Error("failed to list claims", "community_id", communityID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
