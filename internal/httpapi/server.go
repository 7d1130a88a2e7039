package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"sabores-app/internal/cart"
	"sabores-app/internal/logger"
	"sabores-app/internal/order"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// OrderSource exposes the tracked active orders for read-only rendering.
type OrderSource interface {
	Snapshot() []order.Order
}

type cartView struct {
	Lines      []cart.Line `json:"lines"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

// NewRouter builds the read-only API a front end polls for state snapshots.
func NewRouter(orders OrderSource, store *cart.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/api/orders/active", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, orders.Snapshot())
	})

	r.Get("/api/cart", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, cartView{
			Lines:      store.Lines(),
			TotalItems: store.Count(),
			TotalPrice: store.Total(),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Error("response encode failed", zap.Error(err))
	}
}

// responseRecorder lets us capture HTTP status codes
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every HTTP request in structured JSON
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.L().Info("HTTP Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.statusCode),
			zap.String("duration", time.Since(start).String()),
			zap.String("remote_ip", r.RemoteAddr),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
