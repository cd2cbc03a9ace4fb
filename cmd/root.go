package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/c2h5oh/datasize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/relex/gotils/config"
	"github.com/relex/gotils/logger"
	"github.com/relex/textualize/base"
	"github.com/relex/textualize/defs"
	"github.com/relex/textualize/run"
	"github.com/relex/textualize/util"
	"github.com/spf13/cobra"
)

type rootCommandState struct {
	ConfigFile   string `name:"config" help:"Configuration file path"`
	Compress     bool   `help:"Compress binary text output with gzip"`
	Tag          bool   `help:"Record source path and header as extended attributes of outputs"`
	MaxInputSize string `name:"max-input-size" help:"Reject inputs larger than this size, e.g. 64MB"`
	MetricsFile  string `name:"metrics-file" help:"Write Prometheus metrics to file when finished"`

	CPUProfile string `name:"cpuprofile" help:"Write CPU profile to file."`
	MemProfile string `name:"memprofile" help:"Write memory profile to file."`
	Trace      string `help:"Write trace to file."`

	cpuProfileFile *os.File
	memProfileFile *os.File
	traceFile      *os.File

	registry *prometheus.Registry
	runner   *run.Runner
}

func newRootCommand(state *rootCommandState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textualize <input_path> <output_path>",
		Short: "textualize renders a .bin image as binary text, one 8-bit line per byte after the 8-byte header",
		Args:  requireArgs(2, "<input_path> <output_path>"),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.preRun(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := state.runner.Convert(args[0], args[1])
			return err
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	// persistent so that sub-commands share the same flags
	config.AddStructFlagsToFlags(logger.WithField("cmd", "textualize"), cmd.PersistentFlags(), state)
	return cmd
}

// preRun loads config, applies flag overrides, starts profiling and creates the runner
func (state *rootCommandState) preRun(cmd *cobra.Command) error {
	runConfig, cerr := run.LoadConfigFile(state.ConfigFile)
	if cerr != nil {
		return cerr
	}
	if err := state.overrideConfig(cmd, &runConfig); err != nil {
		return err
	}
	if err := runConfig.VerifyConfig(); err != nil {
		return err
	}

	if err := state.startProfiling(); err != nil {
		return err
	}

	state.registry = prometheus.NewRegistry()
	metricFactory := base.NewMetricFactory(defs.MetricPrefix, nil, nil, state.registry)
	state.runner = run.NewRunner(logger.Root(), runConfig, metricFactory)
	return nil
}

func (state *rootCommandState) overrideConfig(cmd *cobra.Command, runConfig *run.Config) error {
	flags := cmd.Flags()
	if flags.Changed("compress") {
		runConfig.Output.Compress = state.Compress
	}
	if flags.Changed("tag") {
		runConfig.Output.Tag = state.Tag
	}
	if flags.Changed("max-input-size") {
		size, err := datasize.ParseString(state.MaxInputSize)
		if err != nil {
			return fmt.Errorf("%w: --max-input-size: %s", ErrUsage, err.Error())
		}
		runConfig.Input.MaxSize = size
	}
	return nil
}

func (state *rootCommandState) startProfiling() error {
	if state.CPUProfile != "" {
		f, err := os.Create(state.CPUProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile %s: %w", state.CPUProfile, err)
		}

		logger.Infof("start CPU profiling %s", state.CPUProfile)
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start CPU profiling: %w", err)
		}

		state.cpuProfileFile = f
	}

	if state.MemProfile != "" {
		f, err := os.Create(state.MemProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile %s: %w", state.MemProfile, err)
		}

		logger.Infof("start memory profiling %s", state.MemProfile)

		state.memProfileFile = f
	}

	if state.Trace != "" {
		f, err := os.Create(state.Trace)
		if err != nil {
			return fmt.Errorf("failed to create trace %s: %w", state.Trace, err)
		}

		logger.Infof("start tracing %s", state.Trace)
		if err := trace.Start(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to start tracing: %w", err)
		}

		state.traceFile = f
	}
	return nil
}

// finish stops profiling and writes the metrics file, whether or not the command succeeded
func (state *rootCommandState) finish() error {
	if state.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		state.cpuProfileFile.Close()
	}

	if state.memProfileFile != nil {
		runtime.GC()
		if err := pprof.WriteHeapProfile(state.memProfileFile); err != nil {
			logger.Errorf("failed to write memory profile: %s", err.Error())
		}
		state.memProfileFile.Close()
	}

	if state.traceFile != nil {
		trace.Stop()
		state.traceFile.Close()
	}

	if state.MetricsFile != "" && state.registry != nil {
		return util.WriteMetricsFile(state.MetricsFile, prometheus.Gatherers{prometheus.DefaultGatherer, state.registry})
	}
	return nil
}
