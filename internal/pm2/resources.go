package pm2

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pmx/internal/logger"
)

// idlePattern scrapes the idle percentage out of top's Cpu(s) summary line.
var idlePattern = regexp.MustCompile(`(?i)(\d+\.\d+)\s*%id`)

// FetchResources gathers host CPU and memory. The two metrics are collected
// independently and failures degrade to sentinels; this function never
// returns an error, so a box without sysstat still gets a service table.
func FetchResources(r Runner, log logger.Logger) Resources {
	if log == nil {
		log = logger.Noop()
	}
	res := Resources{Memory: Unavailable}

	if cpu, ok := fetchCPU(r, log); ok {
		res.CPU = cpu
		res.CPUKnown = true
	}
	if mem, ok := fetchMemory(r, log); ok {
		res.Memory = mem
	}
	return res
}

// fetchCPU prefers mpstat's one-second average and falls back to scraping
// top when mpstat is missing or prints garbage.
func fetchCPU(r Runner, log logger.Logger) (float64, bool) {
	out, err := r.Execute(cmdCPUAverage)
	if err == nil {
		if v, ok := parseCPUAverage(out); ok {
			return v, true
		}
		log.Debug("mpstat output not usable: %q", firstLine(out))
	} else {
		log.Debug("mpstat failed, falling back to top: %v", err)
	}

	out, err = r.Execute(cmdCPUSnapshot)
	if err != nil {
		log.Debug("top fallback failed: %v", err)
		return 0, false
	}
	v, ok := parseCPUSnapshot(out)
	if !ok {
		log.Debug("top output not usable: %q", firstLine(out))
	}
	return v, ok
}

func parseCPUAverage(out string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(firstLine(out)), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return round2(v), true
}

func parseCPUSnapshot(out string) (float64, bool) {
	m := idlePattern.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	idle, err := strconv.ParseFloat(m[1], 64)
	if err != nil || idle < 0 || idle > 100 {
		return 0, false
	}
	return round2(100 - idle), true
}

// fetchMemory reads `free -m` and summarizes the Mem: row.
func fetchMemory(r Runner, log logger.Logger) (string, bool) {
	out, err := r.Execute(cmdMemory)
	if err != nil {
		log.Debug("free failed: %v", err)
		return "", false
	}
	return parseMemory(out)
}

func parseMemory(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "Mem:" {
			total, used := fields[1], fields[2]
			return fmt.Sprintf("%s MB / %s MB", used, total), true
		}
	}
	return "", false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
