package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanadhikar/claimsd/internal/entity"
)

type CommunityRepository interface {
	ListAll(ctx context.Context) ([]*entity.Community, error)
	GetByID(ctx context.Context, id int64) (*entity.Community, error)
}

type communityRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCommunityRepository(pool *pgxpool.Pool, logger *slog.Logger) CommunityRepository {
	return &communityRepository{pool: pool, logger: logger}
}

const communityColumns = `community_id, community_name, latitude, longitude,
	total_claims, total_in_process, total_approved, total_rejected, total_delayed`

func scanCommunity(row pgx.Row) (*entity.Community, error) {
	var c entity.Community
	err := row.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude,
		&c.TotalClaims, &c.TotalInProcess, &c.TotalApproved, &c.TotalRejected, &c.TotalDelayed)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *communityRepository) ListAll(ctx context.Context) ([]*entity.Community, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+communityColumns+` FROM communities ORDER BY community_id`)
	if err != nil {
		r.logger.Error("failed to list communities", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *communityRepository) GetByID(ctx context.Context, id int64) (*entity.Community, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+communityColumns+` FROM communities WHERE community_id = $1`, id)
	c, err := scanCommunity(row)
	if err != nil {
		r.logger.Error("failed to get community", "community_id", id, "error", err)
		return nil, err
	}
	return c, nil
}
