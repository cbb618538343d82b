package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/ui"
	"github.com/rileyhilliard/pmx/internal/util"
)

// logsCommand prints the stdout and stderr tails for one service.
func logsCommand(idArg string) error {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid service id %q", idArg),
			"Use a numeric id from 'pmx list'.")
	}

	sess, _, err := openSession("[logs]")
	if err != nil {
		return err
	}
	defer sess.Close()

	services, err := pm2.FetchServices(sess)
	if err != nil {
		return err
	}

	svc, ok := findService(services, id)
	if !ok {
		return errors.New(errors.ErrConfig,
			messages.Render(messages.UnknownService, idArg, knownIDs(services)),
			"Run 'pmx list' to see the current services.")
	}

	logs := pm2.FetchLogs(sess, svc.OutLog, svc.ErrLog)

	fmt.Printf("%s (id %d)\n\n", svc.Name, svc.ID)
	fmt.Println(ui.MutedStyle().Render("── stdout ──"))
	fmt.Println(strings.TrimRight(logs.Out, "\n"))
	fmt.Println()
	fmt.Println(ui.MutedStyle().Render("── stderr ──"))
	fmt.Println(strings.TrimRight(logs.Err, "\n"))
	return nil
}

// findService locates a service by pm2 id.
func findService(services []pm2.Service, id int) (pm2.Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return pm2.Service{}, false
}

// knownIDs renders the ids present in a snapshot for error messages.
func knownIDs(services []pm2.Service) string {
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, strconv.Itoa(s.ID))
	}
	return util.JoinOrDefault(ids, "none")
}
