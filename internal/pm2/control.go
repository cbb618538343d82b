package pm2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/logger"
)

// Action is a pm2 lifecycle verb.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// TargetAll addresses every service pm2 manages.
const TargetAll = "all"

// ValidAction reports whether a is a supported lifecycle verb.
func ValidAction(a Action) bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart:
		return true
	}
	return false
}

// ValidTarget reports whether target names a single service by numeric id
// or all of them.
func ValidTarget(target string) bool {
	if target == TargetAll {
		return true
	}
	_, err := strconv.Atoi(target)
	return err == nil
}

// ConfirmFunc asks the user to approve an action before it is dispatched.
// Lifecycle actions always pass this gate; callers that have already
// confirmed (a --yes flag, the dashboard's y/n prompt) supply one that
// returns true.
type ConfirmFunc func(action Action, target string) bool

// Result identifies a successfully dispatched action.
type Result struct {
	RequestID string
	Action    Action
	Target    string
}

// Controller dispatches lifecycle actions through the shared session.
type Controller struct {
	runner    Runner
	confirm   ConfirmFunc
	onSuccess func()
	log       logger.Logger
}

// NewController wires a controller. onSuccess runs after every successful
// dispatch; the dashboard uses it to trigger an immediate refresh. Both
// confirm and onSuccess may be nil.
func NewController(runner Runner, confirm ConfirmFunc, onSuccess func(), log logger.Logger) *Controller {
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{runner: runner, confirm: confirm, onSuccess: onSuccess, log: log}
}

// Dispatch validates, confirms, and issues one lifecycle action. Each
// dispatch gets a request id that ties log lines to an invocation.
func (c *Controller) Dispatch(action Action, target string) (Result, error) {
	if !ValidAction(action) {
		return Result{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown action %q", action),
			"Use start, stop, or restart.")
	}
	if !ValidTarget(target) {
		return Result{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid target %q", target),
			"Use a numeric service id from 'pmx list', or 'all'.")
	}

	if c.confirm != nil && !c.confirm(action, target) {
		return Result{}, errors.New(errors.ErrCancelled,
			fmt.Sprintf("%s cancelled", action), "")
	}

	id := uuid.New().String()
	c.log.Info("[%s] pm2 %s %s", id, action, target)

	out, err := c.runner.Execute(controlCommand(action, target))
	if err != nil {
		c.log.Error("[%s] failed: %v", id, err)
		return Result{}, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Could not %s %s", action, target),
			"Check the service id with 'pmx list'.")
	}
	if strings.TrimSpace(out) == "" {
		c.log.Error("[%s] pm2 returned no output", id)
		return Result{}, errors.New(errors.ErrExec,
			fmt.Sprintf("pm2 gave no response to %s %s", action, target),
			"Check the service id with 'pmx list'.")
	}

	c.log.Debug("[%s] succeeded", id)
	if c.onSuccess != nil {
		c.onSuccess()
	}
	return Result{RequestID: id, Action: action, Target: target}, nil
}
