package stub

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

const (
	DefaultRoute = "/get_char"
	DefaultBody  = "b"
)

type Config struct {
	Route string
	Body  string
	// Status overrides the 200 answer when non-zero.
	Status int
	// RatePerSec enables a token bucket of that rate and burst; requests
	// beyond it are answered with 429. Zero disables limiting.
	RatePerSec int
}

type Handler struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewHandler(cfg Config, logger *slog.Logger) *Handler {
	if cfg.Route == "" {
		cfg.Route = DefaultRoute
	}

	h := &Handler{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.RatePerSec > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}

	return h
}

// Routes returns a mux serving the configured route.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+h.cfg.Route, h.ServeHTTP)
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := http.StatusOK
	if h.cfg.Status != 0 {
		code = h.cfg.Status
	}

	if h.limiter != nil && !h.limiter.Allow() {
		code = http.StatusTooManyRequests
		w.Header().Set("Retry-After", strconv.Itoa(1))
	}

	h.logger.Info("Received request",
		slog.String("from", r.RemoteAddr),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", code))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if code == http.StatusOK {
		w.Write([]byte(h.cfg.Body))
	}
}
