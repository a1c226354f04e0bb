package handler

import (
	"net/http"
	"sync"

	"toolhub/config"
	"toolhub/di"
	"toolhub/shared/logger"
	transport "toolhub/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler serves the API from a serverless function. The router is built on the first call.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger()

		cfg := config.Get()

		logger.SetOutput(cfg)
		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
