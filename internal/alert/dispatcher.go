package alert

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"routine-guard/internal/clock"
	"routine-guard/internal/store"
	"routine-guard/internal/types"
	"routine-guard/internal/utils"

	"github.com/sirupsen/logrus"
)

// SettingsProvider supplies the dispatch interval at tick time so the
// cadence can be retuned without a restart.
type SettingsProvider interface {
	GetSettings() types.SystemSettings
}

// FiredAlert is the payload published when a registration comes due.
type FiredAlert struct {
	ID      string    `json:"id"`
	Weekday int       `json:"weekday"`
	Index   int       `json:"index"`
	FireAt  time.Time `json:"fire_at"`
	FiredAt time.Time `json:"fired_at"`
}

// Dispatcher periodically scans registrations and fires the due ones onto
// the store's pub/sub channel. Fired registrations are removed; the
// scheduler recreates them on the next reschedule.
type Dispatcher struct {
	registrar       Registrar
	store           store.Store
	settingsManager SettingsProvider
	clock           clock.Clock
	stopCh          chan struct{}
	wg              sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the given registrar and store.
func NewDispatcher(registrar Registrar, s store.Store, settingsManager SettingsProvider, clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		registrar:       registrar,
		store:           s,
		settingsManager: settingsManager,
		clock:           clk,
		stopCh:          make(chan struct{}),
	}
}

// Start starts the dispatch loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	logrus.Debug("Alert dispatcher started")
}

// Stop stops the dispatcher gracefully.
func (d *Dispatcher) Stop(ctx context.Context) {
	close(d.stopCh)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logrus.Info("Alert dispatcher stopped gracefully.")
	case <-ctx.Done():
		logrus.Warn("Alert dispatcher stop timed out.")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	interval := d.interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.DispatchDue()
			if next := d.interval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		case <-d.stopCh:
			return
		}
	}
}

func (d *Dispatcher) interval() time.Duration {
	seconds := d.settingsManager.GetSettings().DispatchIntervalSeconds
	if seconds < 1 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// DispatchDue fires every registration whose time has come and removes it.
// Exposed for tests and for an eager dispatch after rescheduling.
func (d *Dispatcher) DispatchDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	regs, err := d.registrar.List(ctx)
	if err != nil {
		// Transient contention resolves itself on the next tick
		if utils.IsTransientDBError(err) {
			logrus.WithError(err).Warn("Failed to list alert registrations, will retry next tick")
		} else {
			logrus.WithError(err).Error("Failed to list alert registrations")
		}
		return
	}

	now := d.clock.Now()
	fired := 0
	for _, reg := range regs {
		if reg.FireAt.After(now) {
			continue
		}
		payload, err := json.Marshal(FiredAlert{
			ID:      reg.ID,
			Weekday: reg.Weekday,
			Index:   reg.Index,
			FireAt:  reg.FireAt,
			FiredAt: now,
		})
		if err != nil {
			continue
		}
		if err := d.store.Publish(Channel, payload); err != nil {
			logrus.WithError(err).WithField("alarm_id", reg.ID).Error("Failed to publish alert")
			continue
		}
		// Removing only after a successful publish keeps the alert pending
		// for the next tick on failure.
		if err := d.registrar.Cancel(ctx, reg.ID); err != nil {
			logrus.WithError(err).WithField("alarm_id", reg.ID).Warn("Failed to retire fired alert")
		}
		fired++
	}

	if fired > 0 {
		logrus.WithField("count", fired).Debug("Dispatched due alerts")
	}
}
