package service

import (
	"context"

	sb "smart_breeder"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/store"
)

type MonitoringService struct {
	dev   Device
	store *store.Store
	log   *logger.Logger
}

func NewMonitoringService(dev Device, st *store.Store, log *logger.Logger) *MonitoringService {
	return &MonitoringService{dev: dev, store: st, log: log}
}

func (s *MonitoringService) Snapshot() models.Snapshot {
	return s.store.Snapshot()
}

// Changed is closed by the next state mutation.
func (s *MonitoringService) Changed() <-chan struct{} {
	return s.store.Changed()
}

// Refresh reads the device once and folds the result into the store.
func (s *MonitoringService) Refresh(ctx context.Context) sb.Result {
	s.store.BeginLoading()
	defer s.store.EndLoading()

	res := s.dev.GetStatus(ctx)
	s.ApplyStatus(res)
	return res
}

// ApplyStatus records a successful reading, or marks the device disconnected
// and raises one notification per lost connection.
func (s *MonitoringService) ApplyStatus(res sb.Result) {
	if res.Success {
		if r, ok := res.Data.(models.DeviceReading); ok {
			s.store.RecordReading(r)
			return
		}
		res.Message = "Device returned no status data"
	}
	if s.store.RecordFailure(res.Message) {
		s.store.PushNotification("Connection lost: " + res.Message)
		if s.log != nil {
			s.log.Warnw("device_disconnected", "address", s.dev.Address(), "message", res.Message)
		}
	}
}

// TestConnection pings the device and records the outcome.
func (s *MonitoringService) TestConnection(ctx context.Context) sb.Result {
	s.store.BeginLoading()
	defer s.store.EndLoading()

	res := s.dev.Ping(ctx)
	if res.Success {
		s.store.SetConnected(true)
		s.store.PushNotification("Connection successful")
	} else {
		s.store.RecordFailure(res.Message)
		s.store.PushNotification("Connection failed: " + res.Message)
	}
	return res
}

func (s *MonitoringService) ClearNotifications() {
	s.store.ClearNotifications()
}
