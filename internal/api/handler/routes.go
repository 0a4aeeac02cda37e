package handler

import (
	"net/http"

	"github.com/vfg2006/ticket-sales-api/internal/api/handler/router"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling"
	"github.com/vfg2006/ticket-sales-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/api/health",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sales(service selling.SalesService, maxReceiptBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/api/sales",
			Method:  http.MethodGet,
			Handler: ListSales(service),
		},
		{
			Path:    "/api/sales",
			Method:  http.MethodPost,
			Handler: CreateSale(service, maxReceiptBytes),
		},
		{
			Path:    "/api/stats",
			Method:  http.MethodGet,
			Handler: GetSalesStats(service),
		},
	}
}

func CronJobs(services CronJobServices, adminKeyHash string) []router.Route {
	return []router.Route{
		{
			Path:        "/api/cron/run/:type",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminKey(adminKeyHash)},
		},
		{
			Path:        "/api/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminKey(adminKeyHash)},
		},
	}
}

func Metrics(handler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: handler,
		},
	}
}
