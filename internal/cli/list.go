package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/table"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// ListOutput is the JSON shape of 'pmx list --json'. Scripts depend on it;
// fields are only ever added.
type ListOutput struct {
	Services  []ServiceOutput `json:"services"`
	Resources ResourceOutput  `json:"resources"`
}

// ServiceOutput is one service in JSON form.
type ServiceOutput struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Version  string  `json:"version"`
	Status   string  `json:"status"`
	CPU      float64 `json:"cpu_percent"`
	MemoryMB float64 `json:"memory_mb"`
	Uptime   string  `json:"uptime"`
	Port     string  `json:"port"`
}

// ResourceOutput is the host snapshot in JSON form. CPUPercent is only
// meaningful when CPUKnown.
type ResourceOutput struct {
	CPUPercent float64 `json:"cpu_percent"`
	CPUKnown   bool    `json:"cpu_known"`
	Memory     string  `json:"memory"`
}

// listCommand fetches one snapshot and prints it.
func listCommand(jsonOut bool) error {
	sess, _, err := openSession("[list]")
	if err != nil {
		return err
	}
	defer sess.Close()

	services, err := pm2.FetchServices(sess)
	if err != nil {
		return err
	}
	resources := pm2.FetchResources(sess, cliLogger("[list]"))
	table.Sort(services, table.ColumnID, false)

	if jsonOut {
		return printListJSON(os.Stdout, services, resources)
	}
	printListTable(services, resources)
	return nil
}

// printListJSON writes the stable JSON form.
func printListJSON(w io.Writer, services []pm2.Service, res pm2.Resources) error {
	out := ListOutput{
		Services: make([]ServiceOutput, 0, len(services)),
		Resources: ResourceOutput{
			CPUPercent: res.CPU,
			CPUKnown:   res.CPUKnown,
			Memory:     res.Memory,
		},
	}
	for _, s := range services {
		out.Services = append(out.Services, ServiceOutput{
			ID:       s.ID,
			Name:     s.Name,
			Version:  s.Version,
			Status:   s.Status,
			CPU:      s.CPU,
			MemoryMB: s.MemoryMB,
			Uptime:   s.Uptime,
			Port:     s.Port,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printListTable renders the human form: resources line, then the table.
func printListTable(services []pm2.Service, res pm2.Resources) {
	fmt.Printf("CPU %s  MEM %s\n\n", res.CPUSummary(), res.Memory)

	if len(services) == 0 {
		fmt.Println("No services reported. Is anything running under pm2?")
		return
	}

	rows := make([][]string, 0, len(services))
	for _, s := range services {
		rows = append(rows, listRow(s))
	}
	fmt.Println(ui.RenderSimpleTable(listColumns(rows), rows))
}

// listRow formats one service the way the dashboard does.
func listRow(s pm2.Service) []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Name,
		s.Version,
		s.Status,
		strconv.FormatFloat(s.CPU, 'f', -1, 64),
		strconv.FormatFloat(s.MemoryMB, 'f', -1, 64),
		s.Uptime,
		s.Port,
	}
}

// listColumns sizes each column to its widest cell, title included.
func listColumns(rows [][]string) []ui.TableColumn {
	cols := make([]ui.TableColumn, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = ui.TableColumn{Title: c.Title(), Width: len(c.Title())}
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(cols) && len(cell) > cols[i].Width {
				cols[i].Width = len(cell)
			}
		}
	}
	return cols
}
