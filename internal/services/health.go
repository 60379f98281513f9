package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/database"
	"github.com/temcen/cinematch/internal/interactions"
)

type HealthService struct {
	logger  *logrus.Logger
	db      *database.Database
	catalog *catalog.Store
	matrix  *interactions.Matrix

	healthCheckStatus *prometheus.GaugeVec
	datasetRows       *prometheus.GaugeVec
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Services    map[string]string `json:"services"`
	Datasets    map[string]int    `json:"datasets"`
	NonCritical []string          `json:"non_critical_failures,omitempty"`
	Latency     time.Duration     `json:"latency,omitempty"`
}

func NewHealthService(
	reg prometheus.Registerer,
	logger *logrus.Logger,
	db *database.Database,
	store *catalog.Store,
	matrix *interactions.Matrix,
) *HealthService {
	factory := promauto.With(reg)

	hs := &HealthService{
		logger:  logger,
		db:      db,
		catalog: store,
		matrix:  matrix,
		healthCheckStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_status",
			Help: "Health check status (1 = healthy, 0 = unhealthy)",
		}, []string{"service"}),
		datasetRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cinematch_dataset_rows",
			Help: "Rows loaded per dataset at startup",
		}, []string{"dataset"}),
	}

	for name, rows := range hs.datasetSizes() {
		hs.datasetRows.WithLabelValues(name).Set(float64(rows))
	}

	return hs
}

// CheckHealth reports dataset sizes and pings optional backing services.
// Datasets are loaded before the server starts, so a running process always
// has them; an unreachable cache or database only degrades the service.
func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: start,
		Services:  make(map[string]string),
		Datasets:  s.datasetSizes(),
	}

	checks := map[string]func(context.Context) error{}
	if s.db != nil && s.db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return s.db.Redis.Ping(ctx).Err() }
	}
	if s.db != nil && s.db.PG != nil {
		checks["postgresql"] = func(ctx context.Context) error { return s.db.PG.Ping(ctx) }
	}

	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(checkCtx)
		cancel()

		if err != nil {
			status.Services[name] = "unhealthy"
			status.NonCritical = append(status.NonCritical, name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", name)
			s.healthCheckStatus.WithLabelValues(name).Set(0)
			continue
		}
		status.Services[name] = "healthy"
		s.healthCheckStatus.WithLabelValues(name).Set(1)
	}

	if len(status.NonCritical) > 0 {
		status.Status = "degraded"
	}
	status.Latency = time.Since(start)

	return status
}

func (s *HealthService) datasetSizes() map[string]int {
	sizes := make(map[string]int)
	if s.catalog != nil {
		if s.catalog.Hollywood != nil {
			sizes["hollywood_items"] = s.catalog.Hollywood.Len()
		}
		if s.catalog.Bollywood != nil {
			sizes["bollywood_items"] = s.catalog.Bollywood.Len()
		}
	}
	if s.matrix != nil {
		sizes["rating_users"] = s.matrix.Ratings.NumUsers()
		sizes["similarity_users"] = s.matrix.Similarity.NumUsers()
	}
	return sizes
}
