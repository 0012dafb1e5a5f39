package wallet

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
	"zzik-backend/internal/common/metrics"
	"zzik-backend/internal/models"
)

// Service manages the append-only points ledger. Balances are never stored;
// they are the sum of the ledger. Spends re-check the balance inside a
// serializable transaction so two concurrent spends cannot both pass the
// check.
type Service struct {
	db     *database.PostgresClient
	logger logger.Logger
	now    func() time.Time
}

func NewService(db *database.PostgresClient, log logger.Logger) *Service {
	return &Service{db: db, logger: log, now: time.Now}
}

// Balance returns the current balance and the most recent ledger entries.
func (s *Service) Balance(ctx context.Context, userID string, limit int) (*BalanceOutput, error) {
	balance, err := s.currentBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, kind, amount, COALESCE(ref_id, ''), created_at
		 FROM wallet_entries
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet entries", err)
	}
	defer rows.Close()

	output := &BalanceOutput{UserID: userID, Balance: balance, Entries: []models.WalletEntry{}}
	for rows.Next() {
		var entry models.WalletEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Kind, &entry.Amount, &entry.Reference, &entry.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("wallet entries scan", err)
		}
		output.Entries = append(output.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet entries", err)
	}

	return output, nil
}

// Earn appends a positive ledger entry.
func (s *Service) Earn(ctx context.Context, input *EarnInput) (*EntryOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.NewValidationFailedError("amount must be positive")
	}

	entry := &models.WalletEntry{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Amount:    input.Amount,
		Kind:      models.WalletKindEarn,
		Reference: input.Reference,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO wallet_entries (id, user_id, kind, amount, ref_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.Kind, entry.Amount, nullable(entry.Reference), entry.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet earn insert", err)
	}

	balance, err := s.currentBalance(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	metrics.WalletEntriesTotal.WithLabelValues(models.WalletKindEarn).Inc()
	return &EntryOutput{Entry: entry, Balance: balance}, nil
}

// Spend appends a negative ledger entry after re-checking the balance in the
// same transaction.
func (s *Service) Spend(ctx context.Context, input *SpendInput) (*EntryOutput, error) {
	if input.Amount <= 0 {
		return nil, errors.NewValidationFailedError("amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

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

	entry := &models.WalletEntry{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Amount:    -input.Amount,
		Kind:      models.WalletKindSpend,
		Reference: input.Reference,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_entries (id, user_id, kind, amount, ref_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.UserID, entry.Kind, entry.Amount, nullable(entry.Reference), entry.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet spend insert", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("wallet spend commit", err)
	}

	metrics.WalletEntriesTotal.WithLabelValues(models.WalletKindSpend).Inc()
	s.logger.Info("wallet spend recorded", map[string]interface{}{
		"userId": input.UserID,
		"amount": input.Amount,
	})

	return &EntryOutput{Entry: entry, Balance: balance - input.Amount}, nil
}

func (s *Service) currentBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM wallet_entries WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("wallet balance", err)
	}
	return balance, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
