package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandShape(t *testing.T) {
	assert.Equal(t, "pmx", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage, "errors should not dump usage")
	assert.True(t, rootCmd.SilenceErrors, "Execute owns error rendering")
}

func TestGlobalFlagsRegistered(t *testing.T) {
	for _, name := range []string{"config", "verbose", "no-color"} {
		flag := rootCmd.PersistentFlags().Lookup(name)
		assert.NotNil(t, flag, "persistent flag --%s should exist", name)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"monitor", "list", "start", "stop", "restart",
		"logs", "exec", "init", "config", "doctor",
		"completion", "version",
	}

	registered := make(map[string]*cobra.Command)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = cmd
	}

	for _, name := range want {
		assert.Contains(t, registered, name, "subcommand %s should be registered", name)
	}
}

func TestConfigSubcommands(t *testing.T) {
	names := make([]string, 0, 2)
	for _, cmd := range configCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "show")
	assert.Contains(t, names, "set")
}

func TestControlCommandsRequireOneArg(t *testing.T) {
	for _, cmd := range []*cobra.Command{startCmd, stopCmd, restartCmd, logsCmd} {
		assert.Error(t, cmd.Args(cmd, nil), "%s rejects zero args", cmd.Name())
		assert.Error(t, cmd.Args(cmd, []string{"1", "2"}), "%s rejects two args", cmd.Name())
		assert.NoError(t, cmd.Args(cmd, []string{"1"}))
	}
}

func TestControlCommandsHaveYesFlag(t *testing.T) {
	for _, cmd := range []*cobra.Command{startCmd, stopCmd, restartCmd} {
		flag := cmd.Flags().Lookup("yes")
		require.NotNil(t, flag, "%s should have --yes", cmd.Name())
		assert.Equal(t, "y", flag.Shorthand)
	}
}

func TestExecCommandNeedsArgs(t *testing.T) {
	assert.Error(t, execCmd.Args(execCmd, nil))
	assert.NoError(t, execCmd.Args(execCmd, []string{"pm2", "save"}))
}

func TestInitCommandFlags(t *testing.T) {
	for _, name := range []string{"host", "port", "user", "non-interactive", "force"} {
		assert.NotNil(t, initCmd.Flags().Lookup(name), "init should have --%s", name)
	}
}

func TestConfigSetRequiresKeyAndValue(t *testing.T) {
	assert.Error(t, configSetCmd.Args(configSetCmd, []string{"theme"}))
	assert.NoError(t, configSetCmd.Args(configSetCmd, []string{"theme", "light"}))
}

func TestCliLoggerRespectsVerboseFlag(t *testing.T) {
	original := verboseFlag
	defer func() { verboseFlag = original }()

	verboseFlag = false
	assert.NotNil(t, cliLogger("[test]"))

	verboseFlag = true
	assert.NotNil(t, cliLogger("[test]"))
}
