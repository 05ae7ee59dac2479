package metrics

import (
	"github.com/Dhoini/Client-microservice/internal/service"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics интерфейс для метрик операций над клиентами
type ClientMetrics interface {
	IncOperation(operation string, status service.Status)
}

type clientMetrics struct {
	log        *logger.Logger
	operations *prometheus.CounterVec
}

// NewClientMetrics создает новые метрики операций над клиентами
func NewClientMetrics(registry *prometheus.Registry, log *logger.Logger) ClientMetrics {
	operations := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_operations_total",
			Help: "The total number of client operations by outcome status",
		},
		[]string{"operation", "status"},
	)

	return &clientMetrics{
		log:        log,
		operations: operations,
	}
}

// IncOperation увеличивает счетчик операций для данного исхода
func (m *clientMetrics) IncOperation(operation string, status service.Status) {
	m.operations.WithLabelValues(operation, string(status)).Inc()
}
