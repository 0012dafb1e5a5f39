package experiences

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
	"zzik-backend/internal/models"
)

// Notifier receives domain events worth telling users about. Implemented by
// the notification dispatcher; tests substitute a recorder.
type Notifier interface {
	Notify(ctx context.Context, recipientID, notifType string, payload map[string]interface{})
}

// Service serves the experience catalog, free-text search, and the funding
// pledge flow. Postgres is the source of truth; Elasticsearch holds a
// search projection refreshed on writes.
type Service struct {
	config   *Config
	db       *database.PostgresClient
	search   *database.ElasticsearchClient
	notifier Notifier
	logger   logger.Logger
	now      func() time.Time
}

func NewService(config *Config, db *database.PostgresClient, search *database.ElasticsearchClient, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		config:   config,
		db:       db,
		search:   search,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

const experienceColumns = `id, title, description, category, region, venue, status,
	funding_goal, funding_pledged, starts_at, ends_at, created_at`

// List returns a page of experiences, newest first, optionally filtered by
// status, category, and region.
func (s *Service) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 || pageSize > s.config.MaxPageSize {
		pageSize = s.config.DefaultPageSize
	}

	where := ` WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2) AND ($3 = '' OR region = $3)`

	var total int64
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM experiences`+where,
		input.Status, input.Category, input.Region,
	).Scan(&total)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience count", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+experienceColumns+` FROM experiences`+where+`
		 ORDER BY created_at DESC
		 LIMIT $4 OFFSET $5`,
		input.Status, input.Category, input.Region, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience list", err)
	}
	defer rows.Close()

	output := &ListOutput{
		Experiences: []models.Experience{},
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
	}
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		output.Experiences = append(output.Experiences, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience list", err)
	}

	return output, nil
}

// Get returns one experience by ID.
func (s *Service) Get(ctx context.Context, experienceID string) (*models.Experience, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = $1`,
		experienceID,
	)
	exp, err := scanExperience(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewExperienceNotFoundError(experienceID)
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// Search runs a free-text query against the Elasticsearch projection.
func (s *Service) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	body, err := buildSearchQuery(input, s.config.SearchSize)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	raw, err := s.search.Search(ctx, body)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(input.Query, err)
	}

	output, err := parseSearchResponse(raw)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(input.Query, err)
	}
	return output, nil
}

// Pledge spends wallet points into an experience's funding total. The wallet
// debit, pledge row, and funding counter move in one serializable
// transaction; a pledge against anything but a funding experience, or one
// whose goal is already met, is rejected.
func (s *Service) Pledge(ctx context.Context, input *PledgeInput) (*PledgeOutput, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var status string
	var goal, pledged int64
	err = tx.QueryRowContext(ctx,
		`SELECT status, funding_goal, funding_pledged FROM experiences WHERE id = $1 FOR UPDATE`,
		input.ExperienceID,
	).Scan(&status, &goal, &pledged)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewExperienceNotFoundError(input.ExperienceID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience lookup", err)
	}
	if status != "funding" {
		return nil, errors.NewExperienceClosedError(input.ExperienceID, status)
	}
	if pledged >= goal {
		return nil, errors.NewExperienceFullyFundedError(input.ExperienceID, goal, pledged)
	}

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM wallet_entries WHERE user_id = $1`,
		input.UserID,
	).Scan(&balance)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet balance", err)
	}
	if balance < input.Amount {
		return nil, errors.NewWalletInsufficientError(balance, input.Amount)
	}

	createdAt := s.now().UTC().Format(time.RFC3339)
	pledge := &models.Pledge{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		ExperienceID: input.ExperienceID,
		Amount:       input.Amount,
		Message:      input.Message,
		CreatedAt:    createdAt,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pledges (id, user_id, experience_id, amount, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pledge.ID, pledge.UserID, pledge.ExperienceID, pledge.Amount, pledge.Message, createdAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("pledge insert", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_entries (id, user_id, kind, amount, ref_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), input.UserID, models.WalletKindPledge, -input.Amount, pledge.ID, createdAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet pledge insert", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE experiences SET funding_pledged = funding_pledged + $1 WHERE id = $2`,
		input.Amount, input.ExperienceID,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("funding update", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("pledge commit", err)
	}

	newPledged := pledged + input.Amount
	metrics.PledgesTotal.WithLabelValues(input.ExperienceID).Inc()
	metrics.WalletEntriesTotal.WithLabelValues(models.WalletKindPledge).Inc()

	if s.notifier != nil {
		s.notifier.Notify(ctx, input.UserID, "pledge_received", map[string]interface{}{
			"experienceId": input.ExperienceID,
			"amount":       input.Amount,
		})
	}

	s.logger.Info("pledge recorded", map[string]interface{}{
		"userId":       input.UserID,
		"experienceId": input.ExperienceID,
		"amount":       input.Amount,
		"pledged":      newPledged,
		"goal":         goal,
	})

	return &PledgeOutput{
		Pledge:         pledge,
		FundingPledged: newPledged,
		FundingGoal:    goal,
		GoalReached:    newPledged >= goal,
	}, nil
}

// IndexExperience refreshes the search projection for one experience.
func (s *Service) IndexExperience(ctx context.Context, exp *models.Experience) error {
	doc, err := json.Marshal(exp)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.search.IndexDocument(ctx, exp.ID, string(doc)); err != nil {
		return errors.NewSearchQueryFailedError("index "+exp.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExperience(row rowScanner) (*models.Experience, error) {
	var exp models.Experience
	err := row.Scan(
		&exp.ID, &exp.Title, &exp.Description, &exp.Category, &exp.Region, &exp.Venue,
		&exp.Status, &exp.FundingGoal, &exp.FundingPledged, &exp.StartsAt, &exp.EndsAt, &exp.CreatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("experience scan", err)
	}
	return &exp, nil
}
