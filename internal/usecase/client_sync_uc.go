package usecase

import (
	"context"
	"errors"

	"account-service/internal/repository"
	xerrors "account-service/pkg/xerrors"

	"go.uber.org/zap"
)

type ClientSyncUsecase struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewClientSyncUsecase initializes a new ClientSyncUsecase
func NewClientSyncUsecase(accountRepo repository.AccountRepository, logger *zap.Logger) *ClientSyncUsecase {
	return &ClientSyncUsecase{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// ApplyClientUpdate overwrites the denormalized client name and status on
// every account the client owns. The projection is best effort: a client
// with no accounts is a no-op and storage failures are logged and
// swallowed, never surfaced to the message trigger. Re-applying the same
// update is harmless, which keeps at-least-once delivery safe.
func (uc *ClientSyncUsecase) ApplyClientUpdate(ctx context.Context, clientID, clientName string, clientStatus bool) {
	accounts, err := uc.accountRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			uc.logger.Info("client update skipped, client owns no accounts",
				zap.String("client_id", clientID))
			return
		}
		uc.logger.Error("failed to load accounts for client update",
			zap.String("client_id", clientID), zap.Error(err))
		return
	}

	for _, account := range accounts {
		// only the client columns are written; a movement posted while this
		// projection runs keeps its balance
		if err := uc.accountRepo.UpdateClientFields(ctx, account.AccountNumber, clientName, clientStatus); err != nil {
			uc.logger.Error("failed to apply client update to account",
				zap.String("client_id", clientID),
				zap.String("account_number", account.AccountNumber),
				zap.Error(err))
			continue
		}
	}

	uc.logger.Info("client info updated on accounts",
		zap.String("client_id", clientID),
		zap.Int("accounts", len(accounts)))
}
