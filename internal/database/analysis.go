package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateAnalysisSnapshot persists one finished analysis result and fills in
// the generated ID. The payload is stored as JSONB.
func (db *DB) CreateAnalysisSnapshot(ctx context.Context, snapshot *RepositoryAnalysis) error {
	query := `
		INSERT INTO repository_analyses (repository_id, user_id, analysis)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := db.pool.QueryRow(ctx, query, snapshot.RepositoryID, snapshot.UserID, snapshot.Analysis).
		Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis snapshot: %w", err)
	}

	return nil
}

// GetAnalysisSnapshot retrieves a stored analysis by its primary key.
func (db *DB) GetAnalysisSnapshot(ctx context.Context, id int64) (*RepositoryAnalysis, error) {
	query := `
		SELECT id, repository_id, user_id, analysis, created_at
		FROM repository_analyses
		WHERE id = $1
	`

	snapshot := &RepositoryAnalysis{}
	var payload []byte
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&snapshot.ID,
		&snapshot.RepositoryID,
		&snapshot.UserID,
		&payload,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis snapshot: %w", err)
	}

	snapshot.Analysis = json.RawMessage(payload)
	return snapshot, nil
}

// ListAnalysisSnapshots retrieves a repository's stored analyses, newest
// first.
func (db *DB) ListAnalysisSnapshots(ctx context.Context, repositoryID int64, limit, offset int) ([]*RepositoryAnalysis, error) {
	query := `
		SELECT id, repository_id, user_id, analysis, created_at
		FROM repository_analyses
		WHERE repository_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.pool.Query(ctx, query, repositoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*RepositoryAnalysis{}
	for rows.Next() {
		snapshot := &RepositoryAnalysis{}
		var payload []byte
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.RepositoryID,
			&snapshot.UserID,
			&payload,
			&snapshot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis snapshot: %w", err)
		}
		snapshot.Analysis = json.RawMessage(payload)
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}
