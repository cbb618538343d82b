package poll

import (
	"time"

	"github.com/rileyhilliard/pmx/internal/logger"
	"github.com/rileyhilliard/pmx/internal/pm2"
)

// Event is one completed poll cycle. When Err is set, Services holds
// whatever the failing fetch returned (usually nothing) and Resources is
// still the best-effort snapshot.
type Event struct {
	Services  []pm2.Service
	Resources pm2.Resources
	Err       error
	At        time.Time
}

// Poller runs fetch cycles against the shared session and delivers each
// snapshot on Events. It is the only path data takes from the session to
// the dashboard.
type Poller struct {
	runner pm2.Runner
	sched  *Scheduler
	events chan Event
	log    logger.Logger
}

// NewPoller wires a poller to a runner. Nothing happens until Start.
func NewPoller(runner pm2.Runner, interval time.Duration, log logger.Logger) *Poller {
	if log == nil {
		log = logger.Noop()
	}
	p := &Poller{
		runner: runner,
		events: make(chan Event, 4),
		log:    log,
	}
	p.sched = NewScheduler(interval, p.cycle)
	return p
}

// Events delivers one Event per completed cycle.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Start runs one immediate cycle and arms the periodic ticks.
func (p *Poller) Start() {
	p.sched.Start()
	p.sched.Trigger()
}

// Refresh runs one cycle now, leaving the periodic schedule alone.
func (p *Poller) Refresh() {
	p.sched.Trigger()
}

// SetInterval adjusts the polling cadence. Zero or less pauses automatic
// polling until a positive interval is set again.
func (p *Poller) SetInterval(d time.Duration) {
	p.sched.SetInterval(d)
}

// Stop permanently halts polling. The events channel stays open; readers
// should stop on their own signal.
func (p *Poller) Stop() {
	p.sched.Stop()
}

// cycle fetches one snapshot. A consumer that has fallen behind loses the
// oldest kind of data there is, so the send never blocks the session; the
// next cycle supersedes anything dropped.
func (p *Poller) cycle() {
	ev := Event{At: time.Now()}
	ev.Services, ev.Err = pm2.FetchServices(p.runner)
	ev.Resources = pm2.FetchResources(p.runner, p.log)
	if ev.Err != nil {
		p.log.Debug("poll cycle failed: %v", ev.Err)
	}

	select {
	case p.events <- ev:
	default:
		p.log.Debug("dropping poll event, consumer is behind")
	}
}
