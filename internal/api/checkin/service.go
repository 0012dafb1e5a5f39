package checkin

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
	"zzik-backend/internal/models"
)

// Service records event check-ins and maintains the point leaderboards.
//
// Check-ins are idempotent per user, experience, and calendar day: the ledger
// row in Postgres is the source of truth, the Redis sorted sets are a derived
// ranking that degrades to stale rather than failing the check-in.
type Service struct {
	config *Config
	db     *database.PostgresClient
	cache  *database.RedisClient
	logger logger.Logger
	now    func() time.Time
}

func NewService(config *Config, db *database.PostgresClient, cache *database.RedisClient, log logger.Logger) *Service {
	return &Service{
		config: config,
		db:     db,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// CheckIn records a check-in for the day. A repeated check-in on the same day
// returns the existing record with Duplicate set; it never awards points
// twice. The first check-in of a day following a checked-in day earns a
// streak bonus on top of the base points.
func (s *Service) CheckIn(ctx context.Context, input *CheckInInput) (*CheckInOutput, error) {
	date := input.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}

	status, err := s.experienceStatus(ctx, input.ExperienceID)
	if err != nil {
		return nil, err
	}
	if status != "open" {
		return nil, errors.NewExperienceClosedError(input.ExperienceID, status)
	}

	if existing, err := s.findCheckIn(ctx, input.UserID, input.ExperienceID, date); err != nil {
		return nil, err
	} else if existing != nil {
		return &CheckInOutput{CheckIn: existing, Duplicate: true}, nil
	}

	// The streak bonus belongs to the first check-in of the day; later
	// check-ins at other experiences earn base points only.
	earnedToday, err := s.checkedInOn(ctx, input.UserID, date)
	if err != nil {
		return nil, err
	}
	streak := false
	if !earnedToday {
		streak, err = s.checkedInOn(ctx, input.UserID, previousDay(date))
		if err != nil {
			return nil, err
		}
	}

	points := s.config.CheckInPoints
	if streak {
		points += s.config.DailyStreakPoints
	}

	record := &models.CheckIn{
		ID:           uuid.New().String(),
		UserID:       input.UserID,
		ExperienceID: input.ExperienceID,
		CheckInDate:  date,
		Points:       points,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}

	if err := s.persistCheckIn(ctx, record); err != nil {
		return nil, err
	}

	s.updateLeaderboards(ctx, record)
	metrics.CheckInsTotal.WithLabelValues(record.ExperienceID).Inc()
	metrics.WalletEntriesTotal.WithLabelValues(models.WalletKindEarn).Inc()

	s.logger.Info("check-in recorded", map[string]interface{}{
		"userId":       record.UserID,
		"experienceId": record.ExperienceID,
		"date":         record.CheckInDate,
		"points":       record.Points,
		"streakBonus":  streak,
	})

	return &CheckInOutput{
		CheckIn:       record,
		PointsAwarded: points,
		StreakBonus:   streak,
	}, nil
}

// Leaderboard returns the top scorers, globally or for one experience. When a
// user is known, their own rank rides along even outside the top N.
func (s *Service) Leaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	key := GlobalLeaderboardKey
	output := &LeaderboardOutput{Scope: "global", Entries: []models.LeaderboardEntry{}}
	if input.ExperienceID != "" {
		key = ExperienceLeaderboardKey(input.ExperienceID)
		output.Scope = "experience"
		output.ExperienceID = input.ExperienceID
	}

	scores, err := s.cache.TopScores(ctx, key, s.config.TopN)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("leaderboard read", err)
	}

	for i, z := range scores {
		member, _ := z.Member.(string)
		output.Entries = append(output.Entries, models.LeaderboardEntry{
			Rank:   int64(i + 1),
			UserID: member,
			Score:  z.Score,
		})
	}

	if input.UserID != "" {
		rank, err := s.cache.Rank(ctx, key, input.UserID)
		if err == nil {
			score, err := s.cache.Score(ctx, key, input.UserID)
			if err == nil {
				output.Me = &models.LeaderboardEntry{
					Rank:   rank + 1,
					UserID: input.UserID,
					Score:  score,
				}
			}
		} else if !stderrors.Is(err, redis.Nil) {
			return nil, errors.NewQueryExecutionFailedError("leaderboard rank read", err)
		}
	}

	return output, nil
}

func (s *Service) experienceStatus(ctx context.Context, experienceID string) (string, error) {
	var status string
	err := s.db.QueryRow(ctx,
		`SELECT status FROM experiences WHERE id = $1`,
		experienceID,
	).Scan(&status)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", errors.NewExperienceNotFoundError(experienceID)
	}
	if err != nil {
		return "", errors.NewQueryExecutionFailedError("experience lookup", err)
	}
	return status, nil
}

func (s *Service) findCheckIn(ctx context.Context, userID, experienceID, date string) (*models.CheckIn, error) {
	var record models.CheckIn
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, experience_id, check_in_date, points, created_at
		 FROM check_ins
		 WHERE user_id = $1 AND experience_id = $2 AND check_in_date = $3`,
		userID, experienceID, date,
	).Scan(&record.ID, &record.UserID, &record.ExperienceID, &record.CheckInDate, &record.Points, &record.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("check-in lookup", err)
	}
	return &record, nil
}

func (s *Service) checkedInOn(ctx context.Context, userID, date string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM check_ins WHERE user_id = $1 AND check_in_date = $2)`,
		userID, date,
	).Scan(&exists)
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("streak lookup", err)
	}
	return exists, nil
}

// persistCheckIn writes the check-in and the matching wallet earn entry in
// one transaction.
func (s *Service) persistCheckIn(ctx context.Context, record *models.CheckIn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO check_ins (id, user_id, experience_id, check_in_date, points, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.ExperienceID, record.CheckInDate, record.Points, record.CreatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("check-in insert", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_entries (id, user_id, kind, amount, ref_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), record.UserID, models.WalletKindEarn, record.Points, record.ID, record.CreatedAt,
	)
	if err != nil {
		return errors.NewQueryExecutionFailedError("wallet earn insert", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewQueryExecutionFailedError("check-in commit", err)
	}
	return nil
}

// updateLeaderboards applies the earned points to the global and
// per-experience sorted sets. Failures leave the boards stale; the next
// check-in catches them up only for its own delta, so a warning is logged
// for the operator.
func (s *Service) updateLeaderboards(ctx context.Context, record *models.CheckIn) {
	for _, key := range []string{GlobalLeaderboardKey, ExperienceLeaderboardKey(record.ExperienceID)} {
		if _, err := s.cache.IncrScore(ctx, key, record.UserID, float64(record.Points)); err != nil {
			s.logger.Warn("leaderboard update failed", map[string]interface{}{
				"key":    key,
				"userId": record.UserID,
				"error":  err.Error(),
			})
		}
	}
}

func previousDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}
