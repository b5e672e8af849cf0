package usecase

import (
	"context"

	"karya-backend/pkg/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	db *pgxpool.Pool
}

func NewHealthUsecase(db *pgxpool.Pool) HealthUsecase {
	return &healthUsecase{db: db}
}

// Check reports per-dependency health. Redis being down degrades the report
// but not the overall status, since the rate limiter falls back to memory.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":   "ok",
		"database": "up",
		"redis":    "up",
	}
	if err := u.db.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
	}
	if !redis.IsAvailable() || redis.HealthCheck(ctx) != nil {
		status["redis"] = "down"
	}
	return status
}
