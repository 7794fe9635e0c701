package handler

import (
	"net/http"
	"slotwise/config"
	"slotwise/di"
	"slotwise/shared/logger"
	"sync"

	transportHTTP "slotwise/transport/http"
)

var (
	server *transportHTTP.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The container is built on the first
// invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
