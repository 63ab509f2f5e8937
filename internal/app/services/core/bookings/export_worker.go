package bookings

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"time"

	"github.com/goccy/go-json"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const exportLeaderLockTTL = 2 * time.Minute

// ExportWorker periodically uploads a full booking export to object storage.
type ExportWorker struct {
	log            *zap.Logger
	cfg            *config.InternalConfig
	locker         contracts.LockerService
	bookingUsecase contracts.BookingUsecase
	cron           *cron.Cron
	runCtx         context.Context
	cancel         context.CancelFunc
}

func NewExportWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, bookingUsecase contracts.BookingUsecase) *ExportWorker {
	return &ExportWorker{log: log, cfg: cfg, locker: lockerSvc, bookingUsecase: bookingUsecase}
}

// Start schedules the export. An empty cron spec leaves the worker idle.
func (w *ExportWorker) Start(ctx context.Context) error {
	spec := w.cfg.Booking.ExportCronSpec
	if spec == "" {
		w.log.Info("ExportWorker.Start scheduled export disabled")
		return nil
	}

	w.runCtx, w.cancel = context.WithCancel(ctx)
	c := cron.New()
	_, err := c.AddFunc(spec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.cancel()
		return err
	}
	c.Start()
	w.cron = c

	w.log.Info("ExportWorker.Start scheduled export enabled",
		zap.String(constvars.LoggingCronSpecKey, spec),
		zap.String(constvars.LoggingExportFormatKey, w.cfg.Booking.ExportFormat),
	)
	return nil
}

// Stop cancels in-flight work and waits for a running export to return.
func (w *ExportWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce exports every booking if this instance wins the leader lock.
func (w *ExportWorker) RunOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, constvars.ExportLeaderLockKey, exportLeaderLockTTL)
	if err != nil {
		w.log.Warn("ExportWorker.RunOnce leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("ExportWorker.RunOnce leader lock held by another instance")
		return
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
		defer cancel()
		if err := w.locker.Unlock(unlockCtx, constvars.ExportLeaderLockKey, token); err != nil {
			w.log.Warn("ExportWorker.RunOnce error releasing leader lock", zap.Error(err))
		}
	}()

	sessionData, err := json.Marshal(models.Session{
		SessionID: constvars.ScheduledExportUserID,
		UserID:    constvars.ScheduledExportUserID,
		Role:      constvars.RoleSuperuser,
	})
	if err != nil {
		w.log.Error("ExportWorker.RunOnce error marshaling session", zap.Error(err))
		return
	}

	result, err := w.bookingUsecase.ExportBookings(ctx, string(sessionData), requests.BookingFilter{}, w.cfg.Booking.ExportFormat)
	if err != nil {
		w.log.Error("ExportWorker.RunOnce export failed", zap.Error(err))
		return
	}

	w.log.Info("ExportWorker.RunOnce export uploaded",
		zap.String(constvars.LoggingObjectNameKey, result.ObjectName),
		zap.Int(constvars.LoggingTotalKey, result.Total),
	)
}
