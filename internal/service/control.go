package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sb "smart_breeder"
	"smart_breeder/internal/device"
	"smart_breeder/internal/logger"
	"smart_breeder/internal/models"
	"smart_breeder/internal/store"
)

type ControlService struct {
	dev          Device
	store        *store.Store
	monitoring   Monitoring
	refreshDelay time.Duration
	log          *logger.Logger
}

func NewControlService(dev Device, st *store.Store, monitoring Monitoring, refreshDelay time.Duration, log *logger.Logger) *ControlService {
	return &ControlService{
		dev:          dev,
		store:        st,
		monitoring:   monitoring,
		refreshDelay: refreshDelay,
		log:          log,
	}
}

// SendControl validates relay names, sends the partial map and, on success,
// schedules a status re-read after the refresh delay. Control writes are not
// serialized against polls; the re-read is what makes the new state visible.
func (s *ControlService) SendControl(ctx context.Context, relays map[string]bool) (sb.Result, error) {
	if len(relays) == 0 {
		return sb.Result{}, fmt.Errorf("%w: no relays given", ErrInvalidControl)
	}
	for name := range relays {
		if !models.IsRelayName(name) {
			return sb.Result{}, fmt.Errorf("%w: unknown relay %q", ErrInvalidControl, name)
		}
	}
	return s.send(ctx, describeRelays(relays), relays), nil
}

// EmergencyStop switches every relay off in one command.
func (s *ControlService) EmergencyStop(ctx context.Context) sb.Result {
	relays := make(map[string]bool, len(models.RelayNames))
	for _, name := range models.RelayNames {
		relays[name] = false
	}
	res := s.send(ctx, "Emergency stop", relays)
	if res.Success {
		s.store.PushNotification("Emergency stop: all relays switched off")
	}
	if s.log != nil {
		s.log.Warnw("emergency_stop", "success", res.Success, "message", res.Message)
	}
	return res
}

func (s *ControlService) send(ctx context.Context, action string, relays map[string]bool) sb.Result {
	s.store.BeginLoading()
	res := s.dev.SendControl(ctx, relays)
	s.store.EndLoading()

	s.store.LogAction(action, res.Success)
	if !res.Success {
		s.store.PushNotification("Control failed: " + res.Message)
		return res
	}
	s.store.SetLastAction("control", relays)
	time.AfterFunc(s.refreshDelay, func() {
		s.monitoring.Refresh(context.Background())
	})
	return res
}

func (s *ControlService) Calibrate(ctx context.Context, req device.CalibrationRequest) (sb.Result, error) {
	if !req.Valid() {
		return sb.Result{}, ErrInvalidCalibration
	}
	s.store.BeginLoading()
	res := s.dev.Calibrate(ctx, req)
	s.store.EndLoading()

	action := "Calibrate " + req.Action
	if req.Offset != nil {
		action = fmt.Sprintf("%s (offset %.2f)", action, *req.Offset)
	}
	s.store.LogAction(action, res.Success)
	if !res.Success {
		s.store.PushNotification("Calibration failed: " + res.Message)
	}
	return res, nil
}

// describeRelays renders {"fan":true,"acidPump":false} as "acidPump OFF, fan ON".
func describeRelays(relays map[string]bool) string {
	names := make([]string, 0, len(relays))
	for name := range relays {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		state := "OFF"
		if relays[name] {
			state = "ON"
		}
		parts = append(parts, name+" "+state)
	}
	return strings.Join(parts, ", ")
}
