package handler

import "net/http"

// NewMux wires the ledger's read/command API. Middleware is applied by
// the caller.
func NewMux(
	pockets *PocketHandler,
	transactions *TransactionHandler,
	bills *BillPaymentHandler,
	reports *ReportHandler,
	health *HealthHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /ready", health.Readiness)

	mux.HandleFunc("POST /api/v1/pockets", pockets.Create)
	mux.HandleFunc("GET /api/v1/pockets", pockets.List)
	mux.HandleFunc("GET /api/v1/pockets/{id}", pockets.Get)
	mux.HandleFunc("PATCH /api/v1/pockets/{id}", pockets.Update)
	mux.HandleFunc("DELETE /api/v1/pockets/{id}", pockets.Delete)

	mux.HandleFunc("POST /api/v1/pockets/{id}/transactions", transactions.Add)
	mux.HandleFunc("POST /api/v1/bills/{id}/pay", bills.Pay)

	mux.HandleFunc("GET /api/v1/reports/summary", reports.Summary)
	mux.HandleFunc("GET /api/v1/reports/net-worth", reports.NetWorth)
	mux.HandleFunc("GET /api/v1/reports/breakdown", reports.Breakdown)
	mux.HandleFunc("GET /api/v1/reports/upcoming-bills", reports.UpcomingBills)

	return mux
}
