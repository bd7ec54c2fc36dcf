package usecase

import (
	"context"
	"errors"
	"time"

	"account-service/internal/domain"
	"account-service/internal/repository"
	xerrors "account-service/pkg/xerrors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionEventPublisher notifies downstream consumers of posted
// movements. Publishing is best effort and never fails the operation.
type TransactionEventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *domain.TransactionEvent) error
}

type TransactionUsecase struct {
	accountRepo repository.AccountRepository
	txRepo      repository.TransactionRepository
	events      TransactionEventPublisher
	logger      *zap.Logger
}

// NewTransactionUsecase initializes a new TransactionUsecase
func NewTransactionUsecase(
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	events TransactionEventPublisher,
	logger *zap.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		events:      events,
		logger:      logger,
	}
}

// PostTransaction applies a signed movement to an account and records the
// resulting balance snapshot. The account row stays locked until commit, so
// concurrent posts against the same account serialize at the store.
func (uc *TransactionUsecase) PostTransaction(ctx context.Context, accountNumber, transactionType string, amount decimal.Decimal) (*domain.Transaction, error) {
	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := uc.accountRepo.GetByAccountNumberForUpdate(ctx, accountNumber, tx)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, err
	}

	newBalance := account.Balance.Add(amount)
	if newBalance.IsNegative() {
		uc.logger.Warn("movement rejected, insufficient balance",
			zap.String("account_number", accountNumber),
			zap.String("amount", amount.String()),
			zap.String("balance", account.Balance.String()))
		return nil, xerrors.ErrInsufficientBalance
	}

	if err := uc.accountRepo.UpdateBalanceTx(ctx, accountNumber, newBalance, tx); err != nil {
		return nil, err
	}

	movement := &domain.Transaction{
		Date:            time.Now(),
		TransactionType: transactionType,
		Amount:          amount,
		Balance:         newBalance,
		AccountNumber:   accountNumber,
	}
	if err := uc.txRepo.Create(ctx, movement, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info("movement posted",
		zap.String("account_number", accountNumber),
		zap.Int64("transaction_id", movement.ID),
		zap.String("amount", amount.String()),
		zap.String("new_balance", newBalance.String()))

	uc.publish(ctx, domain.EventTransactionCompleted, movement)
	return movement, nil
}

// AmendTransaction changes an existing movement's amount and type and
// shifts the live account balance by the amount delta.
//
// Known limitation carried over from the original design: the balance
// snapshots of movements posted after the amended one are not recomputed,
// so they go stale relative to true cumulative history.
func (uc *TransactionUsecase) AmendTransaction(ctx context.Context, transactionID int64, newTransactionType string, newAmount decimal.Decimal) (*domain.Transaction, error) {
	tx, err := uc.accountRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := uc.txRepo.GetByIDTx(ctx, transactionID, tx)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrTransactionNotFound
		}
		return nil, err
	}

	account, err := uc.accountRepo.GetByAccountNumberForUpdate(ctx, existing.AccountNumber, tx)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			// integrity fault: movement references a missing account
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, err
	}

	difference := newAmount.Sub(existing.Amount)
	newBalance := account.Balance.Add(difference)
	if newBalance.IsNegative() {
		uc.logger.Warn("amendment rejected, insufficient balance",
			zap.Int64("transaction_id", transactionID),
			zap.String("difference", difference.String()),
			zap.String("balance", account.Balance.String()))
		return nil, xerrors.ErrInsufficientBalance
	}

	if err := uc.accountRepo.UpdateBalanceTx(ctx, existing.AccountNumber, newBalance, tx); err != nil {
		return nil, err
	}

	existing.Amount = newAmount
	existing.Balance = newBalance
	existing.TransactionType = newTransactionType
	if err := uc.txRepo.Update(ctx, existing, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info("movement amended",
		zap.Int64("transaction_id", transactionID),
		zap.String("new_amount", newAmount.String()),
		zap.String("new_balance", newBalance.String()))

	uc.publish(ctx, domain.EventTransactionAmended, existing)
	return existing, nil
}

// GetByID fetches a transaction by id
func (uc *TransactionUsecase) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetAll lists every transaction
func (uc *TransactionUsecase) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	return uc.txRepo.GetAll(ctx)
}

func (uc *TransactionUsecase) publish(ctx context.Context, eventType string, t *domain.Transaction) {
	if uc.events == nil {
		return
	}

	event := &domain.TransactionEvent{
		EventType:       eventType,
		AccountNumber:   t.AccountNumber,
		TransactionID:   t.ID,
		TransactionType: t.TransactionType,
		Amount:          t.Amount,
		BalanceAfter:    t.Balance,
	}
	if err := uc.events.PublishTransactionEvent(ctx, event); err != nil {
		uc.logger.Error("failed to publish transaction event",
			zap.Int64("transaction_id", t.ID), zap.Error(err))
	}
}
