package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"account-service/internal/domain"
	"account-service/internal/repository"
	xerrors "account-service/pkg/xerrors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accountsCacheKey = "accounts:all"
	accountsCacheTTL = 5 * time.Minute
)

type AccountUsecase struct {
	accountRepo repository.AccountRepository
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewAccountUsecase initializes a new AccountUsecase
func NewAccountUsecase(accountRepo repository.AccountRepository, redisClient *redis.Client, logger *zap.Logger) *AccountUsecase {
	return &AccountUsecase{
		accountRepo: accountRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

// CreateAccount persists a new account for an active client.
// The initial balance comes in as given; the inbound layer validates that
// it is non-negative.
func (uc *AccountUsecase) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if !account.IsClientActive() {
		return nil, xerrors.ErrInactiveClient
	}

	exists, err := uc.accountRepo.ExistsByAccountNumber(ctx, account.AccountNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xerrors.ErrAccountAlreadyExists
	}

	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.accountRepo.Create(ctx, account, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	uc.logger.Info("account created",
		zap.String("account_number", account.AccountNumber),
		zap.String("client_id", account.ClientID))

	return account, nil
}

// GetByAccountNumber fetches an account by its number
func (uc *AccountUsecase) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetAll lists every account, cached for a short window
func (uc *AccountUsecase) GetAll(ctx context.Context) ([]*domain.Account, error) {
	// --- Check Redis cache first ---
	if val, err := uc.redisClient.Get(ctx, accountsCacheKey).Result(); err == nil {
		var accounts []*domain.Account
		if jsonErr := json.Unmarshal([]byte(val), &accounts); jsonErr == nil {
			return accounts, nil
		}
	}

	accounts, err := uc.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// --- Cache result in Redis ---
	if data, err := json.Marshal(accounts); err == nil {
		_ = uc.redisClient.Set(ctx, accountsCacheKey, data, accountsCacheTTL).Err()
	}

	return accounts, nil
}

// UpdateAccount replaces the editable fields of an account. The statement
// writes only those two columns, so balance, account number and client
// identity fields are never touched here.
func (uc *AccountUsecase) UpdateAccount(ctx context.Context, accountNumber string, accountType domain.AccountType, status bool) (*domain.Account, error) {
	account, err := uc.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateEditableFields(ctx, accountNumber, accountType, status); err != nil {
		return nil, err
	}

	account.AccountType = accountType
	account.Status = status

	uc.invalidateCache(ctx)
	return account, nil
}

// PatchAccount applies only the non-nil fields of the partial update
func (uc *AccountUsecase) PatchAccount(ctx context.Context, accountNumber string, patch *domain.AccountPatch) (*domain.Account, error) {
	account, err := uc.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if patch.AccountType != nil {
		account.AccountType = *patch.AccountType
	}
	if patch.Status != nil {
		account.Status = *patch.Status
	}

	if err := uc.accountRepo.UpdateEditableFields(ctx, accountNumber, account.AccountType, account.Status); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	return account, nil
}

func (uc *AccountUsecase) invalidateCache(ctx context.Context) {
	if err := uc.redisClient.Del(ctx, accountsCacheKey).Err(); err != nil {
		uc.logger.Debug("account cache invalidation failed", zap.Error(err))
	}
}
