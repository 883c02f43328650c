package httpapi

import (
	"net/http"
	"runtime/debug"

	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	Recorder       metrics.Recorder
}

func NewRouter(
	handler *Handler,
	verifier TokenVerifier,
	logger *logging.Logger,
	opts RouterOptions,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerUserRoutes(mux, handler, verifier)
	registerTeamRoutes(mux, handler, verifier)
	registerMatchRoutes(mux, handler, verifier)
	registerRecordMergeRoutes(mux, handler, verifier)
	registerTeamMergeRoutes(mux, handler, verifier)
	registerStatsRoutes(mux, handler, verifier)
	registerNotificationRoutes(mux, handler, verifier)

	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, RequestMetrics(opts.Recorder, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			switch rec {
			case nil:
				return
			case http.ErrAbortHandler:
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "stack", string(debug.Stack()))
			writeInternalError(r.Context(), w)
		}()
		next.ServeHTTP(w, r)
	})
}
