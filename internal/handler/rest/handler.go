package hrest

import (
	"errors"
	"net/http"
	"time"

	"account-service/internal/usecase"
	"account-service/pkg/response"
	xerrors "account-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type AccountingRestHandler struct {
	accountUC *usecase.AccountUsecase
	txUC      *usecase.TransactionUsecase
	reportUC  *usecase.ReportUsecase
	logger    *zap.Logger
}

func NewAccountingRestHandler(
	accountUC *usecase.AccountUsecase,
	txUC *usecase.TransactionUsecase,
	reportUC *usecase.ReportUsecase,
	logger *zap.Logger,
) *AccountingRestHandler {
	return &AccountingRestHandler{
		accountUC: accountUC,
		txUC:      txUC,
		reportUC:  reportUC,
		logger:    logger,
	}
}

func (h *AccountingRestHandler) registerRoutes(r chi.Router) {
	r.Route("/cuentas", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/{accountNumber}", h.GetAccount)
		r.Put("/{accountNumber}", h.UpdateAccount)
		r.Patch("/{accountNumber}", h.PatchAccount)
	})

	r.Route("/movimientos", func(r chi.Router) {
		r.Post("/", h.CreateTransaction)
		r.Get("/", h.ListTransactions)
		r.Get("/{id}", h.GetTransaction)
		r.Put("/{id}", h.UpdateTransaction)
	})

	r.Get("/reportes", h.GetReport)
}

// Router builds the chi router with the service middleware stack
func (h *AccountingRestHandler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h.registerRoutes(r)
	return r
}

func (h *AccountingRestHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info("request completed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// writeDomainError maps domain errors onto HTTP status codes
func (h *AccountingRestHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrAccountNotFound),
		errors.Is(err, xerrors.ErrTransactionNotFound),
		errors.Is(err, xerrors.ErrClientNotFound),
		errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrAccountAlreadyExists):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, xerrors.ErrInactiveClient),
		errors.Is(err, xerrors.ErrInsufficientBalance),
		errors.Is(err, xerrors.ErrInvalidInput),
		errors.Is(err, xerrors.ErrInvalidRequest):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
