package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetRepositoryByFullName retrieves a repository by its "owner/name" form.
func (db *DB) GetRepositoryByFullName(ctx context.Context, fullName string) (*Repository, error) {
	query := `
		SELECT id, full_name, name, url, github_id, description, user_id, created_at, updated_at
		FROM repositories
		WHERE full_name = $1
	`

	repo := &Repository{}
	err := db.pool.QueryRow(ctx, query, fullName).Scan(
		&repo.ID,
		&repo.FullName,
		&repo.Name,
		&repo.URL,
		&repo.GitHubID,
		&repo.Description,
		&repo.UserID,
		&repo.CreatedAt,
		&repo.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	return repo, nil
}

// CreateRepository creates a new repository record
func (db *DB) CreateRepository(ctx context.Context, repo *Repository) error {
	query := `
		INSERT INTO repositories (full_name, name, url, github_id, description, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := db.pool.QueryRow(ctx, query,
		repo.FullName, repo.Name, repo.URL, repo.GitHubID, repo.Description, repo.UserID,
	).Scan(&repo.ID, &repo.CreatedAt, &repo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	return nil
}

// GetOrCreateRepository fetches the repository for fullName, creating it
// from the provided record when absent.
func (db *DB) GetOrCreateRepository(ctx context.Context, repo *Repository) (*Repository, error) {
	existing, err := db.GetRepositoryByFullName(ctx, repo.FullName)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	if err := db.CreateRepository(ctx, repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// ListRepositories retrieves a user's tracked repositories with pagination.
func (db *DB) ListRepositories(ctx context.Context, userID int64, limit, offset int) ([]*Repository, error) {
	query := `
		SELECT id, full_name, name, url, github_id, description, user_id, created_at, updated_at
		FROM repositories
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := db.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	repositories := []*Repository{}
	for rows.Next() {
		repo := &Repository{}
		err := rows.Scan(
			&repo.ID,
			&repo.FullName,
			&repo.Name,
			&repo.URL,
			&repo.GitHubID,
			&repo.Description,
			&repo.UserID,
			&repo.CreatedAt,
			&repo.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repositories = append(repositories, repo)
	}

	return repositories, nil
}
