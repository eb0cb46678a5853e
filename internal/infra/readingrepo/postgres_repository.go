package readingrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/priyadesai/airhealth/internal/domain/airdata"
	"github.com/priyadesai/airhealth/internal/domain/prediction"
	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

// PostgresRepository serves feature rows from the feature_rows table, where
// the ETL pipeline lands engineered data. Features live in a JSONB column so
// the schema survives feature set changes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Latest(ctx context.Context, city string) (airdata.FeatureRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT features
		FROM feature_rows
		WHERE lower(city_name) = lower($1)
		ORDER BY observed_at DESC
		LIMIT 1
	`, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.New(prediction.CodeCityNotFound,
			fmt.Sprintf("city %q not found", city))
	}
	var features airdata.FeatureRow
	if err := rows.Scan(&features); err != nil {
		return nil, err
	}
	return features, rows.Err()
}

func (r *PostgresRepository) Recent(ctx context.Context, city string, limit int) ([]airdata.FeatureRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT features
		FROM (
			SELECT features, observed_at
			FROM feature_rows
			WHERE lower(city_name) = lower($1)
			ORDER BY observed_at DESC
			LIMIT $2
		) recent
		ORDER BY observed_at ASC
	`, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []airdata.FeatureRow
	for rows.Next() {
		var features airdata.FeatureRow
		if err := rows.Scan(&features); err != nil {
			return nil, err
		}
		out = append(out, features)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperrors.New(prediction.CodeCityNotFound,
			fmt.Sprintf("city %q not found", city))
	}
	return out, nil
}

func (r *PostgresRepository) Cities(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT city_name
		FROM feature_rows
		ORDER BY city_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		out = append(out, city)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) All(ctx context.Context) ([]airdata.FeatureRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT features
		FROM feature_rows
		ORDER BY city_name, observed_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []airdata.FeatureRow
	for rows.Next() {
		var features airdata.FeatureRow
		if err := rows.Scan(&features); err != nil {
			return nil, err
		}
		out = append(out, features)
	}
	return out, rows.Err()
}

var _ prediction.ReadingSource = (*PostgresRepository)(nil)
