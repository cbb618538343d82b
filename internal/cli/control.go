package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/messages"
	"github.com/rileyhilliard/pmx/internal/pm2"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// controlCommand dispatches one lifecycle action. A declined confirmation is
// a no-op, not a failure; the process exits 0.
func controlCommand(action pm2.Action, target string, yes bool) error {
	sess, _, err := openSession("[control]")
	if err != nil {
		return err
	}
	defer sess.Close()

	var confirm pm2.ConfirmFunc
	if !yes {
		confirm = promptConfirm
	}

	control := pm2.NewController(sess, confirm, nil, cliLogger("[control]"))
	result, err := control.Dispatch(action, target)
	if err != nil {
		if errors.IsCode(err, errors.ErrCancelled) {
			fmt.Println(messages.Render(messages.ActionCancelled, action))
			return nil
		}
		return err
	}

	fmt.Printf("%s %s\n",
		ui.SuccessStyle().Render(ui.SymbolSuccess),
		messages.Render(messages.ActionSucceeded, result.Action, result.Target))
	return nil
}

// promptConfirm asks for approval with a huh form. An aborted form counts
// as a decline.
func promptConfirm(action pm2.Action, target string) bool {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(messages.Render(messages.ConfirmAction, action, target)).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}
