// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the HTTP router of the staking daemon.
package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/gafaradetunji/staking-test/api/poolapi"
	"github.com/gafaradetunji/staking-test/api/utils"
	"github.com/gafaradetunji/staking-test/eventdb"
	"github.com/gafaradetunji/staking-test/pool"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins is a comma separated CORS origin list; empty disables
	// cross origin requests.
	AllowedOrigins string
	// EnableMetrics counts requests per route/method/status.
	EnableMetrics bool
}

// New returns the api handler.
func New(p *pool.Pool, events *eventdb.EventDB, opts Options) http.Handler {
	router := mux.NewRouter()
	if opts.EnableMetrics {
		// mux middlewares run after route matching, so the route name is
		// available to the request counter
		router.Use(metricsMiddleware)
	}

	poolapi.New(p, events).Mount(router, "/pool")

	router.Path("/healthz").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, map[string]bool{"healthy": true})
		}))

	var handler http.Handler = router
	if opts.AllowedOrigins != "" {
		origins := strings.Split(opts.AllowedOrigins, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		handler = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"content-type"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		)(handler)
	}
	return handler
}
