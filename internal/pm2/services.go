package pm2

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rileyhilliard/pmx/internal/errors"
)

// jlistEntry matches the subset of `pm2 jlist` output pmx reads. pm2 dumps
// far more; unknown fields are ignored.
type jlistEntry struct {
	PMID  int    `json:"pm_id"`
	Name  string `json:"name"`
	Monit struct {
		Memory float64 `json:"memory"` // bytes
		CPU    float64 `json:"cpu"`    // percent
	} `json:"monit"`
	Env struct {
		Status  string          `json:"status"`
		Version string          `json:"version"`
		Uptime  int64           `json:"pm_uptime"` // epoch milliseconds
		OutLog  string          `json:"pm_out_log_path"`
		ErrLog  string          `json:"pm_err_log_path"`
		Port    json.RawMessage `json:"PORT"` // number or string, often absent
	} `json:"pm2_env"`
}

// FetchServices lists every pm2-managed process. Transport failures
// propagate; malformed JSON yields an empty slice plus a DATA error so one
// bad poll never kills the caller. Empty output means pm2 manages nothing.
func FetchServices(r Runner) ([]Service, error) {
	out, err := r.Execute(cmdList)
	if err != nil {
		return nil, err
	}
	return parseServices(out, time.Now())
}

func parseServices(out string, now time.Time) ([]Service, error) {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return []Service{}, nil
	}

	var entries []jlistEntry
	if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
		return []Service{}, errors.WrapWithCode(err, errors.ErrData,
			"The service listing could not be parsed",
			"Check that pm2 is healthy: run 'pm2 jlist' on the host.")
	}

	services := make([]Service, 0, len(entries))
	for _, e := range entries {
		services = append(services, Service{
			ID:       e.PMID,
			Name:     e.Name,
			Version:  stringOr(e.Env.Version, Unavailable),
			Status:   stringOr(e.Env.Status, "unknown"),
			CPU:      clampCPU(e.Monit.CPU),
			MemoryMB: round2(e.Monit.Memory / 1048576),
			Uptime:   FormatUptime(e.Env.Uptime, now),
			OutLog:   e.Env.OutLog,
			ErrLog:   e.Env.ErrLog,
			Port:     portString(e.Env.Port),
		})
	}
	return services, nil
}

// portString renders the PORT env value, which pm2 reports as a JSON number
// or string depending on how the app was started.
func portString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return Unavailable
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return Unavailable
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return Unavailable
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// clampCPU clamps out the negative CPU readings pm2 occasionally reports for
// processes mid-restart.
func clampCPU(v float64) float64 {
	if v < 0 {
		return 0
	}
	return round2(v)
}
