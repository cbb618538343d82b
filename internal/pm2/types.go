// Package pm2 talks to the pm2 process manager on the monitored host. It
// turns fixed remote commands into typed snapshots (services, system
// resources, log tails) and dispatches lifecycle actions. Every fetcher
// degrades to sentinel values instead of failing a whole poll when one data
// source is broken.
package pm2

import (
	"math"
	"strconv"
)

// Unavailable marks a metric whose data source was missing or unreadable.
const Unavailable = "N/A"

// Runner executes one remote command and returns its stdout. The session
// package provides the real implementation.
type Runner interface {
	Execute(command string) (string, error)
}

// Service is one pm2-managed process as of a single poll.
type Service struct {
	ID       int
	Name     string
	Version  string
	Status   string
	CPU      float64
	MemoryMB float64
	Uptime   string
	OutLog   string
	ErrLog   string
	Port     string
}

// Resources is the host-level snapshot taken alongside the service list.
type Resources struct {
	// CPU is the busy percentage. Meaningful only when CPUKnown.
	CPU      float64
	CPUKnown bool
	// Memory reads "used MB / total MB", or Unavailable.
	Memory string
}

// CPUSummary renders the CPU metric for display.
func (r Resources) CPUSummary() string {
	if !r.CPUKnown {
		return Unavailable
	}
	return trimFloat(r.CPU) + "%"
}

// round2 rounds to two decimal places, the precision everything in the
// table is displayed at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// trimFloat formats without trailing zeros ("3.02", "3.1", "3").
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
