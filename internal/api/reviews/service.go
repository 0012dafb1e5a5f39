package reviews

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/models"
)

// Service manages experience reviews. One review per user per experience;
// ratings run 1 to 5.
type Service struct {
	config *Config
	db     *database.PostgresClient
	logger logger.Logger
	now    func() time.Time
}

func NewService(config *Config, db *database.PostgresClient, log logger.Logger) *Service {
	return &Service{config: config, db: db, logger: log, now: time.Now}
}

// Create writes a review after checking the experience exists and the user
// has not reviewed it already.
func (s *Service) Create(ctx context.Context, input *CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, &errors.StandardError{
			Code:      errors.ErrCodeReviewInvalidRating,
			Message:   "Rating must be between 1 and 5",
			Retryable: false,
			Timestamp: s.now().UTC(),
		}
	}
	if len(input.Body) > s.config.MaxBodyLength {
		return nil, errors.NewValidationFailedError("review body too long")
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM experiences WHERE id = $1)`,
		input.ExperienceID,
	).Scan(&exists)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience lookup", err)
	}
	if !exists {
		return nil, errors.NewExperienceNotFoundError(input.ExperienceID)
	}

	var duplicate bool
	err = s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND experience_id = $2)`,
		input.UserID, input.ExperienceID,
	).Scan(&duplicate)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("review lookup", err)
	}
	if duplicate {
		return nil, errors.NewReviewDuplicateError(input.UserID, input.ExperienceID)
	}

	review := &models.Review{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		ExperienceID: input.ExperienceID,
		Rating:       input.Rating,
		Body:         input.Body,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO reviews (id, user_id, experience_id, rating, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.UserID, review.ExperienceID, review.Rating, review.Body, review.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("review insert", err)
	}

	s.logger.Info("review created", map[string]interface{}{
		"userId":       review.UserID,
		"experienceId": review.ExperienceID,
		"rating":       review.Rating,
	})

	return review, nil
}

// List returns a page of reviews for an experience, newest first, with the
// running average rating.
func (s *Service) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 || pageSize > s.config.MaxPageSize {
		pageSize = s.config.DefaultPageSize
	}

	var total int64
	var avg sql.NullFloat64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*), AVG(rating) FROM reviews WHERE experience_id = $1`,
		input.ExperienceID,
	).Scan(&total, &avg)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("review stats", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, experience_id, rating, body, created_at
		 FROM reviews
		 WHERE experience_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		input.ExperienceID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("review list", err)
	}
	defer rows.Close()

	output := &ListOutput{
		Reviews:  []models.Review{},
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	if avg.Valid {
		output.AverageRating = avg.Float64
	}

	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ExperienceID, &r.Rating, &r.Body, &r.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("review scan", err)
		}
		output.Reviews = append(output.Reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("review list", err)
	}

	return output, nil
}
