package main

import (
	"net/http"

	"github.com/angeloszaimis/statusfan/internal/metrics"
)

func setupRouter(metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /metrics", metricsCollector.Handler("dispatcher"))

	return mux
}
