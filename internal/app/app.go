// Package app wires configuration, storage, the notification center,
// the reminder scheduler and the HTTP surface into one runnable daemon.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	sd "github.com/coreos/go-systemd/v22/daemon"

	"wellbot/internal/center"
	"wellbot/internal/config"
	"wellbot/internal/eventbus"
	"wellbot/internal/reminder"
	"wellbot/internal/server"
	"wellbot/internal/sink"
	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	store storage.Store
	bus   eventbus.Bus
	ctr   *center.Local
	sched *reminder.Scheduler
	srv   *server.Server // nil when disabled

	mu          sync.Mutex
	watchCancel context.CancelFunc
	wg          sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(cfg.Logx())

	store, err := storage.Open(cfg.Storagex(), log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	bus := eventbus.New()
	clk := clock.New()

	snk := buildSink(cfg, log)
	ctr, err := center.NewLocal(cfg.Centerx(), snk, clk, bus, log.With(logx.String("comp", "center")))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init notification center: %w", err)
	}

	sched := reminder.New(ctr, store, cfg.Reminderx(), clk, bus, log.With(logx.String("comp", "reminder")))

	a := &App{
		cfgMgr: mgr,
		logSvc: logSvc,
		log:    log,
		store:  store,
		bus:    bus,
		ctr:    ctr,
		sched:  sched,
	}
	if cfg.Server.Enabled {
		a.srv = server.New(cfg.ServerAddr(), sched, ctr, log.With(logx.String("comp", "http")))
	}
	return a, nil
}

func (a *App) Scheduler() *reminder.Scheduler { return a.sched }

// Bus exposes the event stream (reminder.scheduled, reminder.fired, ...)
// so embedders can observe scheduling activity.
func (a *App) Bus() eventbus.Bus { return a.bus }

func (a *App) Start(ctx context.Context) error {
	a.ctr.Start()
	if a.srv != nil {
		a.srv.Start()
	}

	// The default bundle is safe to request on every start; the flag
	// makes repeat launches a no-op.
	ids, err := a.sched.ScheduleDefaults(ctx)
	if err != nil {
		a.log.Error("default bundle registration incomplete", logx.Int("registered", len(ids)), logx.Err(err))
	} else if len(ids) > 0 {
		a.log.Info("default bundle scheduled", logx.Int("count", len(ids)))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.watchCancel = cancel
	a.mu.Unlock()

	// Log reminder events for observability/debug (components can also
	// subscribe themselves via Bus).
	events, unsub := a.bus.Subscribe(128)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer unsub()
		for {
			select {
			case <-watchCtx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				// Keep this debug-level to avoid noise from frequent firings.
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	}()

	// Config hot reload.
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		if err := a.cfgMgr.Watch(watchCtx); err != nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()
	updates := a.cfgMgr.Subscribe(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-watchCtx.Done():
				return
			case cfg, ok := <-updates:
				if !ok || cfg == nil {
					return
				}
				a.logSvc.Apply(cfg.Logx())
				a.sched.Apply(cfg.Reminderx())
				a.log.Info("config reloaded")
			}
		}
	}()

	_, _ = sd.SdNotify(false, sd.SdNotifyReady)
	a.log.Info("wellbot started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	_, _ = sd.SdNotify(false, sd.SdNotifyStopping)

	a.mu.Lock()
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
	a.mu.Unlock()
	a.wg.Wait()

	if a.srv != nil {
		a.srv.Stop(ctx)
	}
	a.ctr.Stop(ctx)
	err := a.store.Close()
	_ = a.logSvc.Close()
	return err
}

// buildSink assembles the delivery pipeline: log sink always, Telegram
// when configured, the whole thing rate-limited.
func buildSink(cfg *config.Config, log logx.Logger) sink.Sink {
	sinks := []sink.Sink{sink.NewLog(log.With(logx.String("comp", "sink")))}
	if cfg.Sink.Telegram.Enabled {
		tg, err := sink.NewTelegram(cfg.TelegramSink(), log.With(logx.String("comp", "telegram")))
		if err != nil {
			log.Warn("telegram sink unavailable, continuing without it", logx.Err(err))
		} else {
			sinks = append(sinks, tg)
		}
	}
	return sink.NewLimited(sink.Fanout(sinks...), cfg.Sink.RatePerMinute)
}
