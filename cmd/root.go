// Package cmd provides the root command and CLI setup for the mutagen
// runner.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JiayiXu/mutagen/internal/adapter"
	"github.com/JiayiXu/mutagen/internal/controller"
	"github.com/JiayiXu/mutagen/internal/domain"
	m "github.com/JiayiXu/mutagen/internal/model"
)

var catalogAdapter adapter.CatalogAdapter
var execAdapter adapter.TestExecAdapter
var coverageStore adapter.CoverageStore
var timeoutStore adapter.TimeoutStore
var engine domain.Engine
var ui controller.UI

// workspaceFlag is the directory holding the instrumentation's target/mutagen
// output. Shared by commands that locate the catalog and side files.
var workspaceFlag string

// catalogFlag overrides the well-known catalog path when set.
var catalogFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	catalogAdapter = adapter.NewLocalCatalogAdapter()
	execAdapter = adapter.NewLocalTestExecAdapter(nil)
	coverageStore = adapter.NewLocalCoverageStore()
	timeoutStore = adapter.NewLocalTimeoutStore()
	engine = domain.NewEngine(catalogAdapter, execAdapter, coverageStore, timeoutStore, ui)
}

const rootLongDescription = `mutagen-runner drives an instrumented test binary once per mutation and
classifies each mutation as caught (a test failed or the binary hung) or
survived (every test passed, so the suite missed the change).

The mutation catalog and optional coverage data are read from the
instrumentation output under <workspace>/target/mutagen.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutagen-runner",
		Short: "Mutation testing execution engine",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&workspaceFlag, workspaceFlagName, "w",
			viper.GetString(workspaceConfigKey),
			"workspace directory containing the instrumentation output",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(workspaceFlagName), workspaceConfigKey)

	cmd.PersistentFlags().StringVar(&catalogFlag, catalogFlagName, viper.GetString(catalogConfigKey), "path to the mutation catalog (default <workspace>/target/mutagen/mutations.txt)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(catalogFlagName), catalogConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// catalogPath resolves the catalog location, preferring the explicit
// override over the well-known workspace path.
func catalogPath() m.Path {
	if override := viper.GetString(catalogConfigKey); override != "" {
		return m.Path(override)
	}

	return m.Path(filepath.Join(viper.GetString(workspaceConfigKey), mutagenTargetDir, catalogFileName))
}

func coverageMapPath() m.Path {
	return m.Path(filepath.Join(viper.GetString(workspaceConfigKey), mutagenTargetDir, coverageMapFileName))
}

func timeoutLedgerPath() m.Path {
	return m.Path(filepath.Join(viper.GetString(workspaceConfigKey), mutagenTargetDir, timeoutsFileName))
}
