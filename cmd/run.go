package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JiayiXu/mutagen/internal/adapter"
	"github.com/JiayiXu/mutagen/internal/controller"
	"github.com/JiayiXu/mutagen/internal/domain"
	m "github.com/JiayiXu/mutagen/internal/model"
)

var runCoverageFlag bool
var runPassthroughFlag bool
var runTestArgs []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <test-executable> [test-executable...]",
		Short: "Run mutation testing against instrumented test binaries",
		Long: `Run every catalog mutation against the given test executables, one
executable at a time. Each executable is validated with an unmutated
baseline run first; a failing baseline aborts the whole run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("executable path not found")
			}

			executables := make([]m.Executable, 0, len(args))
			for _, bin := range args {
				executables = append(executables, m.Executable{
					Bin:  m.Path(bin),
					Args: runTestArgs,
				})
			}

			strategy := domain.FullSuite
			if viper.GetBool(coverageConfigKey) {
				strategy = domain.CoverageGuided
			}

			eng := engine
			if viper.GetBool(passthroughConfigKey) {
				// Rebuild the pipeline so child output streams to the caller.
				eng = domain.NewEngine(
					catalogAdapter,
					adapter.NewLocalTestExecAdapter(cmd.OutOrStdout()),
					coverageStore,
					timeoutStore,
					ui,
				)
			}

			ctx := cmd.Context()

			if err := ui.Start(ctx, controller.WithRunMode()); err != nil {
				return err
			}

			summary, err := eng.Run(ctx, domain.Args{
				Executables:     executables,
				Catalog:         catalogPath(),
				CoveragePath:    coverageMapPath(),
				LedgerPath:      timeoutLedgerPath(),
				Strategy:        strategy,
				Timeout:         viper.GetDuration(timeoutConfigKey),
				BaselineTimeout: viper.GetDuration(baselineTimeoutConfigKey),
			})

			ui.Close(ctx)
			ui.Wait(ctx)

			if err != nil {
				return err
			}

			if !summary.Ok() {
				return fmt.Errorf("%d of %d mutations were undetected", summary.Survived(), summary.Total)
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&runCoverageFlag, coverageFlagName, "c", viper.GetBool(coverageConfigKey), "restrict each mutation to the tests covering it")
	bindFlagToConfig(cmd.Flags().Lookup(coverageFlagName), coverageConfigKey)

	cmd.Flags().Duration(timeoutFlagName, viper.GetDuration(timeoutConfigKey), "wall-clock budget per test invocation")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutConfigKey)

	cmd.Flags().Duration(baselineTimeoutFlagName, viper.GetDuration(baselineTimeoutConfigKey), "wall-clock budget for the unmutated baseline run")
	bindFlagToConfig(cmd.Flags().Lookup(baselineTimeoutFlagName), baselineTimeoutConfigKey)

	cmd.Flags().BoolVar(&runPassthroughFlag, passthroughFlagName, viper.GetBool(passthroughConfigKey), "stream child process output in addition to capturing it")
	bindFlagToConfig(cmd.Flags().Lookup(passthroughFlagName), passthroughConfigKey)

	cmd.Flags().StringArrayVar(&runTestArgs, testArgFlagName, nil, "extra argument passed to every test invocation (can be repeated)")
}
