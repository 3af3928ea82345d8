package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

func adminOnly(authenticator authenticating.Authenticator) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AuthMiddleware(authenticator),
		middleware.AdminOnly(),
	}
}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Datasets(aggregator aggregating.Aggregator, ingester ingesting.Ingester, authenticator authenticating.Authenticator, maxUploadBytes int64) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/datasets",
			Method:  http.MethodGet,
			Handler: ListDatasets(aggregator),
		},
		{
			Path:        "/v1/datasets/:dataset/uploads",
			Method:      http.MethodPost,
			Handler:     UploadDataset(ingester, maxUploadBytes),
			Middlewares: adminOnly(authenticator),
		},
		{
			Path:        "/v1/datasets/:dataset/uploads",
			Method:      http.MethodGet,
			Handler:     UploadHistory(ingester),
			Middlewares: adminOnly(authenticator),
		},
		{
			Path:    "/v1/datasets/:dataset/aggregate",
			Method:  http.MethodGet,
			Handler: Aggregate(aggregator),
		},
		{
			Path:    "/v1/datasets/:dataset/series",
			Method:  http.MethodGet,
			Handler: Series(aggregator),
		},
		{
			Path:    "/v1/datasets/:dataset/counts",
			Method:  http.MethodGet,
			Handler: ValueCounts(aggregator),
		},
		{
			Path:    "/v1/datasets/:dataset/panels/:panel",
			Method:  http.MethodGet,
			Handler: Panel(aggregator),
		},
		{
			Path:    "/v1/datasets/:dataset/overview",
			Method:  http.MethodGet,
			Handler: Overview(aggregator),
		},
	}
}

func CronJobs(services CronJobServices, authenticator authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: adminOnly(authenticator),
		},
		{
			Path:        "/v1/cron/:type/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: adminOnly(authenticator),
		},
	}
}
