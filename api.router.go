package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	httpswagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/jeamon/bookstore-api/docs"
)

// SetupRoutes injects catalog and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.NotFoundHandler = api.NotFound()
	api.SetupCatalogRoutes(router, m)
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	router.PathPrefix("/swagger/").Handler(m.public(httpswagger.WrapHandler))
	return router
}

// SetupCatalogRoutes injects the books and reviews api endpoints.
// The static segments (featured, top-rated, dates) are declared before
// the {id} route so they match first.
func (api *APIHandler) SetupCatalogRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.Handle("/", m.public(http.HandlerFunc(api.Index))).Methods(http.MethodGet)
	router.Handle("/status", m.public(http.HandlerFunc(api.Status))).Methods(http.MethodGet)

	sub := router.PathPrefix("/api").Subrouter()
	sub.Handle("/books", m.auth(http.HandlerFunc(api.CreateBook))).Methods(http.MethodPost)
	sub.Handle("/books", m.public(http.HandlerFunc(api.GetAllBooks))).Methods(http.MethodGet)
	sub.Handle("/books/featured", m.public(http.HandlerFunc(api.GetFeaturedBooks))).Methods(http.MethodGet)
	sub.Handle("/books/top-rated", m.public(http.HandlerFunc(api.GetTopRatedBooks))).Methods(http.MethodGet)
	sub.Handle("/books/dates/{start}/{end}", m.public(http.HandlerFunc(api.GetBooksByDateRange))).Methods(http.MethodGet)
	sub.Handle("/books/{id}", m.public(http.HandlerFunc(api.GetOneBook))).Methods(http.MethodGet)

	sub.Handle("/reviews", m.auth(http.HandlerFunc(api.CreateReview))).Methods(http.MethodPost)
	sub.Handle("/reviews/book/{bookId}", m.public(http.HandlerFunc(api.GetBookReviews))).Methods(http.MethodGet)
	return router
}

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *mux.Router, m *MiddlewareMap) *mux.Router {
	router.Handle("/ops/configs", m.ops(http.HandlerFunc(api.GetConfigs))).Methods(http.MethodGet)
	router.Handle("/ops/stats", m.ops(http.HandlerFunc(api.GetStatistics))).Methods(http.MethodGet)
	router.Handle("/ops/maintenance", m.ops(http.HandlerFunc(api.MaintenanceMode))).Methods(http.MethodGet)
	router.Handle("/ops/debug/vars", m.ops(http.HandlerFunc(GetMemStats))).Methods(http.MethodGet)
	router.Handle("/ops/debug/gc", m.ops(http.HandlerFunc(api.RunGC))).Methods(http.MethodGet)
	router.Handle("/ops/debug/fos", m.ops(http.HandlerFunc(api.FreeOSMemory))).Methods(http.MethodGet)

	if api.config.ProfilerEnable {
		router.Handle("/ops/debug/pprof/", m.ops(http.HandlerFunc(pprof.Index)))
		router.Handle("/ops/debug/pprof/profile", m.ops(http.HandlerFunc(pprof.Profile)))
		router.Handle("/ops/debug/pprof/trace", m.ops(http.HandlerFunc(pprof.Trace)))
		router.Handle("/ops/debug/pprof/symbol", m.ops(http.HandlerFunc(pprof.Symbol)))
		router.Handle("/ops/debug/pprof/cmdline", m.ops(http.HandlerFunc(pprof.Cmdline)))
		router.Handle("/ops/debug/pprof/heap", m.ops(pprof.Handler("heap")))
		router.Handle("/ops/debug/pprof/allocs", m.ops(pprof.Handler("allocs")))
		router.Handle("/ops/debug/pprof/goroutine", m.ops(pprof.Handler("goroutine")))
		router.Handle("/ops/debug/pprof/threadcreate", m.ops(pprof.Handler("threadcreate")))
		router.Handle("/ops/debug/pprof/block", m.ops(pprof.Handler("block")))
		router.Handle("/ops/debug/pprof/mutex", m.ops(pprof.Handler("mutex")))
	}

	return router
}
