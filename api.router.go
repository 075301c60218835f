package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

// SetupRoutes enforces the api routes.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.NotFound = api.NotFound()
	router.GET("/", m.public.Chain(api.Index))
	router.GET("/status", m.public.Chain(api.Status))

	router.GET("/v1/books", m.public.Chain(api.SearchBooks))
	router.POST("/v1/books", m.public.Chain(api.CreateBook))
	router.POST("/v1/book-id", m.public.Chain(api.GenerateBookID))
	router.GET("/v1/books/:id", m.public.Chain(api.GetOneBook))
	router.PUT("/v1/books/:id", m.public.Chain(api.UpdateBook))
	router.DELETE("/v1/books/:id", m.public.Chain(api.DeleteOneBook))
	router.POST("/v1/books/:id/lend", m.public.Chain(api.LendBook))
	router.POST("/v1/books/:id/return", m.public.Chain(api.ReturnBook))
	router.POST("/v1/books/:id/reserve", m.public.Chain(api.ReserveBook))
	router.POST("/v1/books/:id/release", m.public.Chain(api.ReleaseBook))

	router.GET("/v1/categories", m.public.Chain(api.GetAllCategories))
	router.POST("/v1/categories", m.public.Chain(api.CreateCategory))
	router.PUT("/v1/categories/:id", m.public.Chain(api.UpdateCategory))
	router.DELETE("/v1/categories/:id", m.public.Chain(api.DeleteOneCategory))
	router.GET("/v1/categories/:id/references", m.public.Chain(api.GetCategoryReferences))

	router.GET("/v1/users", m.public.Chain(api.SearchUsers))
	router.POST("/v1/users", m.public.Chain(api.CreateUser))
	router.PUT("/v1/user-roles", m.public.Chain(api.UpdateUserRoles))
	router.GET("/v1/users/:account", m.public.Chain(api.GetOneUser))
	router.PUT("/v1/users/:account", m.public.Chain(api.UpdateUser))
	router.DELETE("/v1/users/:account", m.public.Chain(api.DeleteOneUser))

	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/ops/configs", m.ops.Chain(api.GetConfigs))
	router.GET("/ops/stats", m.ops.Chain(api.GetStatistics))
	router.GET("/ops/maintenance", m.ops.Chain(api.Maintenance))
	router.GET("/ops/audit", m.ops.Chain(api.GetAuditTrail))
	router.GET("/ops/debug/vars", m.ops.Chain(GetMemStats))
	router.GET("/ops/debug/gc", m.ops.Chain(api.RunGC))
	router.GET("/ops/debug/fos", m.ops.Chain(api.FreeOSMemory))

	router.GET("/ops/debug/pprof/", m.ops.Chain(api.GetProfilerIndexPage))
	router.GET("/ops/debug/pprof/profile", m.ops.Chain(api.GetCPUProfile))
	router.GET("/ops/debug/pprof/trace", m.ops.Chain(api.GetTraceProfile))
	router.GET("/ops/debug/pprof/symbol", m.ops.Chain(api.GetSymbol))
	router.GET("/ops/debug/pprof/cmdline", m.ops.Chain(api.GetCmdLine))
	router.GET("/ops/debug/pprof/heap", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("heap"))))
	router.GET("/ops/debug/pprof/allocs", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("allocs"))))
	router.GET("/ops/debug/pprof/goroutine", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("goroutine"))))
	router.GET("/ops/debug/pprof/threadcreate", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("threadcreate"))))
	router.GET("/ops/debug/pprof/block", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("block"))))
	router.GET("/ops/debug/pprof/mutex", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("mutex"))))
	return router
}

// NotFound returns the handler to serve unknown routes.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errResp := NewAPIError("", http.StatusNotFound, "route does not exist.", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send not found response")
		}
	})
}
