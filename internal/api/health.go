package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"textile-qc/inspections/internal/common"
	"textile-qc/inspections/internal/models/dtos"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles GET /healthCheck
// Pings the database and reports uptime; 503 when the database is down.
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		services := make(map[string]dtos.ServiceStatus)

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		dbStatus := dtos.ServiceStatus{Status: "ok", Details: db.DriverName() + " connected"}
		if err := db.PingContext(ctx); err != nil {
			dbStatus = dtos.ServiceStatus{Status: "down", Details: "database unreachable"}
		}
		services["database"] = dbStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		common.RespondJSON(w, initTime, code, dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		})
	}
}
