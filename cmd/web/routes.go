package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(shared(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustIdentify(next))
		}
	)

	mux.Handle("POST /api/identify", session(http.HandlerFunc(app.identifyPOST)))
	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/exercises", mustSession(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("POST /api/exercises", mustSession(http.HandlerFunc(app.exercisesPOST)))
	mux.Handle("GET /api/exercises/{id}", mustSession(http.HandlerFunc(app.exerciseGET)))

	mux.Handle("GET /api/plans", mustSession(http.HandlerFunc(app.plansGET)))
	mux.Handle("POST /api/plans", mustSession(http.HandlerFunc(app.plansPOST)))
	mux.Handle("POST /api/plans/generate", mustSession(http.HandlerFunc(app.planGeneratePOST)))
	mux.Handle("GET /api/plans/{id}", mustSession(http.HandlerFunc(app.planGET)))
	mux.Handle("PUT /api/plans/{id}", mustSession(http.HandlerFunc(app.planPUT)))
	mux.Handle("DELETE /api/plans/{id}", mustSession(http.HandlerFunc(app.planDELETE)))
	mux.Handle("GET /api/plans/{id}/summary", mustSession(http.HandlerFunc(app.planSummaryGET)))
	mux.Handle("GET /api/plans/{id}/instructions.html", mustSession(http.HandlerFunc(app.planInstructionsGET)))
	mux.Handle("POST /api/plans/{id}/swap", mustSession(http.HandlerFunc(app.planSwapPOST)))

	mux.Handle("POST /api/schedule", mustSession(http.HandlerFunc(app.schedulePOST)))
	mux.Handle("GET /api/schedule", mustSession(http.HandlerFunc(app.scheduleGET)))
	mux.Handle("POST /api/schedule/{id}/complete", mustSession(http.HandlerFunc(app.scheduleCompletePOST)))

	mux.Handle("POST /api/logbook/sessions", mustSession(http.HandlerFunc(app.logbookSessionPOST)))
	mux.Handle("POST /api/logbook/sessions/save", mustSession(http.HandlerFunc(app.logbookSavePOST)))
	mux.Handle("GET /api/logbook/last", mustSession(http.HandlerFunc(app.logbookLastGET)))
	mux.Handle("GET /api/logbook/history", mustSession(http.HandlerFunc(app.logbookHistoryGET)))

	mux.Handle("GET /api/stats/{exerciseID}", mustSession(http.HandlerFunc(app.statsGET)))
	mux.Handle("GET /api/stats/{exerciseID}/series", mustSession(http.HandlerFunc(app.statsSeriesGET)))

	mux.Handle("POST /api/wearable/connect", mustSession(http.HandlerFunc(app.wearableConnectPOST)))
	mux.Handle("DELETE /api/wearable/connect", mustSession(http.HandlerFunc(app.wearableDisconnectDELETE)))

	mux.Handle("GET /api/dashboard", mustSession(http.HandlerFunc(app.dashboardGET)))

	return mux
}
