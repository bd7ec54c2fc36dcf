package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"account-service/internal/domain"
	"account-service/internal/repository"
	xerrors "account-service/pkg/xerrors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cached statements are not invalidated when a movement posts; a report
// can lag the ledger by up to this TTL.
const reportCacheTTL = 30 * time.Second

type ReportUsecase struct {
	accountRepo repository.AccountRepository
	txRepo      repository.TransactionRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewReportUsecase initializes a new ReportUsecase
func NewReportUsecase(
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	redisClient *redis.Client,
	logger *zap.Logger,
) *ReportUsecase {
	return &ReportUsecase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// GenerateStatement builds the statement for every account a client owns,
// listing the transactions dated within [from, to] inclusive next to each
// account's live balance. A client with no accounts is unknown to this
// service, so the lookup fails with ErrClientNotFound.
func (uc *ReportUsecase) GenerateStatement(ctx context.Context, clientID string, from, to time.Time) (*domain.ClientReport, error) {
	cacheKey := fmt.Sprintf("report:%s:%d:%d", clientID, from.Unix(), to.Unix())

	// --- Check Redis cache first ---
	if val, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var cached domain.ClientReport
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			return &cached, nil
		}
	}

	accounts, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrClientNotFound
		}
		return nil, err
	}

	report := &domain.ClientReport{
		ClientID: clientID,
		// client name is duplicated on every account; the first one wins
		ClientName: accounts[0].ClientName,
		Accounts:   make([]*domain.AccountStatement, 0, len(accounts)),
	}

	for _, account := range accounts {
		transactions, err := uc.txRepo.GetByAccountNumberAndDateBetween(ctx, account.AccountNumber, from, to)
		if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
		if transactions == nil {
			transactions = []*domain.Transaction{}
		}

		report.Accounts = append(report.Accounts, &domain.AccountStatement{
			AccountNumber:  account.AccountNumber,
			AccountType:    account.AccountType,
			CurrentBalance: account.Balance,
			Status:         account.Status,
			Transactions:   transactions,
		})
	}

	// --- Cache result in Redis ---
	if data, err := json.Marshal(report); err == nil {
		_ = uc.redisClient.Set(ctx, cacheKey, data, reportCacheTTL).Err()
	}

	uc.logger.Info("statement generated",
		zap.String("client_id", clientID),
		zap.Int("accounts", len(report.Accounts)))

	return report, nil
}
