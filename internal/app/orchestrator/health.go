package orchestrator

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService 對外公告的 gRPC health service 名稱
const HealthService = "scoreboard.Orchestrator"

// Health 以 gRPC health protocol 回報 Orchestrator 狀態。
// 整體狀態 ("") 在運行期間一律 SERVING；
// HealthService 只在還有可用 Port 時 SERVING，Pool 用盡時為 NOT_SERVING。
type Health struct {
	srv *health.Server
}

// NewHealth 建立 Health，初始可用 Port 數為 available
func NewHealth(available int) *Health {
	h := &Health{srv: health.NewServer()}
	h.srv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	h.SetCapacity(available)
	return h
}

// Register 將 health service 註冊到 gRPC Server
func (h *Health) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, h.srv)
}

// SetCapacity 依可用 Port 數更新 HealthService 狀態 (可作為 Deps.OnCapacity)
func (h *Health) SetCapacity(available int) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if available <= 0 {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.srv.SetServingStatus(HealthService, status)
}

// Shutdown 將所有 service 標記為 NOT_SERVING
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}
