package hrest

import (
	"net/http"
	"time"

	"account-service/pkg/response"
)

const dateLayout = "2006-01-02"

// GetReport generates the statement for a client over a date range.
// Query params: clientId, fechaInicio, fechaFin (YYYY-MM-DD). Date-only
// values are widened to start-of-day and end-of-day before hitting the
// statement builder.
func (h *AccountingRestHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		response.Error(w, http.StatusBadRequest, "clientId is required")
		return
	}

	from, err := time.Parse(dateLayout, r.URL.Query().Get("fechaInicio"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "fechaInicio must be a valid date (YYYY-MM-DD)")
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("fechaFin"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "fechaFin must be a valid date (YYYY-MM-DD)")
		return
	}
	if to.Before(from) {
		response.Error(w, http.StatusBadRequest, "fechaFin must not be before fechaInicio")
		return
	}

	// widen to the full days
	start := from
	end := to.Add(24*time.Hour - time.Nanosecond)

	report, err := h.reportUC.GenerateStatement(r.Context(), clientID, start, end)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, report)
}
