// Package scheduler runs the daily maintenance sweep: overdue
// subscriptions are expired and stale sessions reaped.
package scheduler

import (
	"context"
	"time"

	"github.com/revloop/revloop/internal/auth"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
	"github.com/revloop/revloop/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const runTimeout = 5 * time.Minute

type Params struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Billing billingdomain.Service
	Auth    auth.Service
}

type Worker struct {
	log      *zap.Logger
	interval time.Duration
	billing  billingdomain.Service
	auth     auth.Service
}

func NewWorker(p Params) *Worker {
	interval := time.Duration(p.Cfg.SweepIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Worker{
		log:      p.Log.Named("scheduler.sweep"),
		interval: interval,
		billing:  p.Billing,
		auth:     p.Auth,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, runTimeout)
	defer cancel()

	expired, err := w.billing.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	reaped, err := w.auth.DeleteExpired(ctx)
	if err != nil {
		return err
	}

	w.log.Info("sweep completed",
		zap.Int("subscriptions_expired", expired),
		zap.Int64("sessions_reaped", reaped))
	return nil
}
