// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/dberr"
)

// # Video Repository

const videoColumns = `id, ownerid, title, slug, description, videourl,
		thumbnailurl, duration, ispublished, createdat, updatedat`

// sortColumns whitelists ORDER BY targets; anything else falls back to
// creation time.
var sortColumns = map[string]string{
	"created_at": "createdat",
	"title":      "title",
	"duration":   "duration",
}

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new video record into the core.video table.

Parameters:
  - context: context.Context
  - video: *Video (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, video *Video) error {
	const query = `
		INSERT INTO core.video (
			id, ownerid, title, slug, description, videourl,
			thumbnailurl, duration, ispublished, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Slug,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_repo_create_failed: %w", dberr.Wrap(err, "Video"))
	}

	return nil
}

/*
FindByID retrieves a video record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Video: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Video, error) {
	const query = `
		SELECT ` + videoColumns + `
		FROM core.video
		WHERE id = $1`

	video := &Video{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Slug,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Video")
	}

	return video, nil
}

/*
Update persists mutable fields of an existing video.

Description: Writes title, slug, description, thumbnail, and publish state.
The media URL and duration are immutable after publishing; replacing the
video file means publishing a new video.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, video *Video) error {
	const query = `
		UPDATE core.video
		SET title = $2, slug = $3, description = $4, thumbnailurl = $5,
			ispublished = $6, updatedat = $7
		WHERE id = $1`

	video.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		video.ID,
		video.Title,
		video.Slug,
		video.Description,
		video.ThumbnailURL,
		video.IsPublished,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_repo_update_failed: %w", dberr.Wrap(err, "Video"))
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

/*
Delete removes the catalogue row for a video.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.video WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

/*
List returns a filtered, ordered page of the catalogue plus the total match
count.

Description: Filters are appended as numbered predicates; the sort column is
resolved through a whitelist, so user input never reaches the SQL text.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*Video: Result page
  - int: Total matches across all pages
  - error: Database errors
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Video, int, error) {
	var predicates []string
	var args []any

	if filter.OnlyPublished {
		predicates = append(predicates, "ispublished = TRUE")
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		predicates = append(predicates, fmt.Sprintf("ownerid = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		predicates = append(predicates, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := ""
	if len(predicates) > 0 {
		whereClause = "WHERE " + strings.Join(predicates, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM core.video " + whereClause

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_count_failed: %w", err)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "createdat"
	}
	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset())
	listQuery := fmt.Sprintf(
		"SELECT %s FROM core.video %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		videoColumns, whereClause, sortColumn, direction, len(args)-1, len(args),
	)

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var results []*Video
	for rows.Next() {
		video := &Video{}
		err := rows.Scan(
			&video.ID,
			&video.OwnerID,
			&video.Title,
			&video.Slug,
			&video.Description,
			&video.VideoURL,
			&video.ThumbnailURL,
			&video.Duration,
			&video.IsPublished,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_repo_scan_failed: %w", err)
		}
		results = append(results, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_repo_rows_failed: %w", err)
	}

	return results, total, nil
}
