package pm2

import (
	"fmt"

	"github.com/rileyhilliard/pmx/internal/util"
)

// Remote command strings. These target a Linux host with procps and sysstat
// installed; Connect probes for each tool and the fetchers degrade
// per-metric when one is absent.
const (
	// cmdList dumps every managed process as a JSON array.
	cmdList = "pm2 jlist"

	// cmdCPUAverage samples CPU for one second and prints busy percent.
	cmdCPUAverage = `mpstat 1 1 | awk '/Average/ {print 100 - $12}'`

	// cmdCPUSnapshot is the fallback when mpstat is unavailable. The idle
	// percentage is scraped out of top's summary line.
	cmdCPUSnapshot = `top -bn1 | grep -i "Cpu(s)"`

	// cmdMemory prints memory totals in megabytes.
	cmdMemory = "free -m"
)

// logTailLines is how much of each log file one fetch shows.
const logTailLines = 100

// RequiredTools lists every remote command pmx depends on. The session
// probes for these at connect time.
var RequiredTools = []string{"pm2", "mpstat", "free", "top", "awk", "grep", "tail"}

// tailCommand builds the tail invocation for one log file.
func tailCommand(path string) string {
	return fmt.Sprintf("tail -n %d %s", logTailLines, util.ShellQuote(path))
}

// controlCommand builds the pm2 invocation for a lifecycle action.
func controlCommand(action Action, target string) string {
	return fmt.Sprintf("pm2 %s %s", action, target)
}
