package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pmx/internal/pm2"
)

// Column identifies one sortable column of the service table.
type Column int

const (
	ColumnID Column = iota
	ColumnName
	ColumnVersion
	ColumnStatus
	ColumnCPU
	ColumnMemory
	ColumnUptime
	ColumnPort
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnID, ColumnName, ColumnVersion, ColumnStatus,
	ColumnCPU, ColumnMemory, ColumnUptime, ColumnPort,
}

// ColumnByIndex maps the dashboard's 1-based sort keys to a column.
func ColumnByIndex(i int) (Column, bool) {
	if i < 1 || i > len(Columns) {
		return 0, false
	}
	return Columns[i-1], true
}

// Title is the column's header label.
func (c Column) Title() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnName:
		return "NAME"
	case ColumnVersion:
		return "VERSION"
	case ColumnStatus:
		return "STATUS"
	case ColumnCPU:
		return "CPU %"
	case ColumnMemory:
		return "MEM MB"
	case ColumnUptime:
		return "UPTIME"
	case ColumnPort:
		return "PORT"
	}
	return ""
}

// Sort orders services in place by one column. The sort is stable, so rows
// that compare equal keep their reconciled order. Unparseable values in the
// numeric columns compare as -1.
func Sort(services []pm2.Service, col Column, descending bool) {
	less := lessFunc(col)
	sort.SliceStable(services, func(i, j int) bool {
		if descending {
			return less(services[j], services[i])
		}
		return less(services[i], services[j])
	})
}

func lessFunc(col Column) func(a, b pm2.Service) bool {
	switch col {
	case ColumnID:
		return func(a, b pm2.Service) bool { return a.ID < b.ID }
	case ColumnCPU:
		return func(a, b pm2.Service) bool { return a.CPU < b.CPU }
	case ColumnMemory:
		return func(a, b pm2.Service) bool { return a.MemoryMB < b.MemoryMB }
	case ColumnPort:
		return func(a, b pm2.Service) bool { return numericOr(a.Port, -1) < numericOr(b.Port, -1) }
	case ColumnUptime:
		return func(a, b pm2.Service) bool { return uptimeSeconds(a.Uptime) < uptimeSeconds(b.Uptime) }
	case ColumnVersion:
		return func(a, b pm2.Service) bool { return lexical(a.Version, b.Version) }
	case ColumnStatus:
		return func(a, b pm2.Service) bool { return lexical(a.Status, b.Status) }
	default:
		return func(a, b pm2.Service) bool { return lexical(a.Name, b.Name) }
	}
}

func lexical(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func numericOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

// uptimeSeconds orders formatted uptimes by real elapsed time, not text.
// "9d ..." must not outrank "10d ...".
func uptimeSeconds(s string) int64 {
	secs, ok := pm2.ParseUptime(s)
	if !ok {
		return -1
	}
	return secs
}
