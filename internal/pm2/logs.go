package pm2

import (
	"strings"
	"sync"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
)

// Logs holds the tail of one service's two log streams.
type Logs struct {
	Out string
	Err string
}

// FetchLogs tails a service's stdout and stderr log files. The two fetches
// are independent; a missing path or a failed tail renders inline as the
// stream's content so the viewer always has something to show.
func FetchLogs(r Runner, outPath, errPath string) Logs {
	var logs Logs
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		logs.Out = fetchTail(r, outPath)
	}()
	go func() {
		defer wg.Done()
		logs.Err = fetchTail(r, errPath)
	}()
	wg.Wait()
	return logs
}

func fetchTail(r Runner, path string) string {
	if strings.TrimSpace(path) == "" {
		return messages.Render(messages.LogNotFound)
	}
	out, err := r.Execute(tailCommand(path))
	if err != nil {
		return messages.Render(messages.LogFetchFailed, errors.Message(err))
	}
	return out
}
