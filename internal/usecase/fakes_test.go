package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"account-service/internal/domain"
	xerrors "account-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// fakeTx satisfies pgx.Tx so the usecases can run against the in-memory
// repositories below. The fakes apply writes immediately, so Commit and
// Rollback are no-ops.
type fakeTx struct{}

func (fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(ctx context.Context) error          { return nil }
func (fakeTx) Rollback(ctx context.Context) error        { return nil }
func (fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (fakeTx) Conn() *pgx.Conn                                               { return nil }

// fakeAccountRepo keeps accounts in memory keyed by account number. Reads
// hand out copies and writes copy back in, mirroring how rows behave.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	nextID   int64

	updateErr error

	// invoked before the matching write applies, outside the lock, so a
	// test can interleave another operation at that point
	beforeClientFieldsWrite   func()
	beforeEditableFieldsWrite func()
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) seed(a domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == 0 {
		r.nextID++
		a.ID = r.nextID
	}
	r.accounts[a.AccountNumber] = a
}

func (r *fakeAccountRepo) get(accountNumber string) (*domain.Account, error) {
	a, ok := r.accounts[accountNumber]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *fakeAccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(accountNumber)
}

func (r *fakeAccountRepo) GetByAccountNumberForUpdate(ctx context.Context, accountNumber string, tx pgx.Tx) (*domain.Account, error) {
	return r.GetByAccountNumber(ctx, accountNumber)
}

func (r *fakeAccountRepo) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[accountNumber]
	return ok, nil
}

func (r *fakeAccountRepo) GetByClientID(ctx context.Context, clientID string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Account
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			copied := a
			out = append(out, &copied)
		}
	}
	if len(out) == 0 {
		return nil, xerrors.ErrNotFound
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) GetAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		copied := a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *domain.Account, tx pgx.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !account.IsValid() {
		return xerrors.ErrInvalidInput
	}
	if _, ok := r.accounts[account.AccountNumber]; ok {
		return xerrors.ErrAccountAlreadyExists
	}

	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.AccountNumber] = *account
	return nil
}

// The update fakes write only the columns the matching SQL statement
// writes, so tests observe the same column ownership as the real store.

func (r *fakeAccountRepo) UpdateEditableFields(ctx context.Context, accountNumber string, accountType domain.AccountType, status bool) error {
	if r.beforeEditableFieldsWrite != nil {
		r.beforeEditableFieldsWrite()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[accountNumber]
	if !ok {
		return xerrors.ErrNotFound
	}
	a.AccountType = accountType
	a.Status = status
	a.UpdatedAt = time.Now()
	r.accounts[accountNumber] = a
	return nil
}

func (r *fakeAccountRepo) UpdateClientFields(ctx context.Context, accountNumber, clientName string, clientStatus bool) error {
	if r.beforeClientFieldsWrite != nil {
		r.beforeClientFieldsWrite()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[accountNumber]
	if !ok {
		return xerrors.ErrNotFound
	}
	a.ClientName = clientName
	a.ClientStatus = clientStatus
	a.UpdatedAt = time.Now()
	r.accounts[accountNumber] = a
	return nil
}

func (r *fakeAccountRepo) UpdateBalanceTx(ctx context.Context, accountNumber string, balance decimal.Decimal, tx pgx.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.accounts[accountNumber]
	if !ok {
		return xerrors.ErrNotFound
	}
	a.Balance = balance
	a.UpdatedAt = time.Now()
	r.accounts[accountNumber] = a
	return nil
}

func (r *fakeAccountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return fakeTx{}, nil
}

// fakeTransactionRepo keeps transactions in memory keyed by id
type fakeTransactionRepo struct {
	mu     sync.Mutex
	txs    map[int64]domain.Transaction
	nextID int64

	createErr error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[int64]domain.Transaction)}
}

func (r *fakeTransactionRepo) seed(t domain.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		r.nextID++
		t.ID = r.nextID
	} else if t.ID > r.nextID {
		r.nextID = t.ID
	}
	r.txs[t.ID] = t
}

func (r *fakeTransactionRepo) Create(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	t.ID = r.nextID
	r.txs[t.ID] = *t
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.txs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (r *fakeTransactionRepo) GetByIDTx(ctx context.Context, id int64, tx pgx.Tx) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTransactionRepo) GetByAccountNumber(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Transaction
	for _, t := range r.txs {
		if t.AccountNumber == accountNumber {
			copied := t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeTransactionRepo) GetByAccountNumberAndDateBetween(ctx context.Context, accountNumber string, from, to time.Time) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Transaction
	for _, t := range r.txs {
		if t.AccountNumber != accountNumber {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		copied := t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeTransactionRepo) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Transaction, 0, len(r.txs))
	for _, t := range r.txs {
		copied := t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, t *domain.Transaction, tx pgx.Tx) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	r.txs[t.ID] = *t
	return nil
}

// fakePublisher records published events
type fakePublisher struct {
	mu     sync.Mutex
	events []*domain.TransactionEvent
	err    error
}

func (p *fakePublisher) PublishTransactionEvent(ctx context.Context, event *domain.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errRepoDown = errors.New("storage unavailable")

// newTestRedis returns a client pointing at a closed port; the usecases
// treat cache failures as misses, so tests run without a redis server.
func newTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
