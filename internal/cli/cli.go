package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/beamgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageExitCode is returned for anything the user typed wrong.
const usageExitCode = 2

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel        string
	logFormat       string
	healthcheckPort int
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly (help was shown),
// or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var parsed *app.Config
	root := newRootCommand(func(cfg app.Config) error {
		valid, err := app.NewConfig(cfg)
		if err != nil {
			return err
		}
		parsed = valid
		return nil
	})
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: usageExitCode, Message: err.Error()}
	}
	if parsed == nil {
		slog.Debug("No command run, usage was printed.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "command", parsed.Command, "path", parsed.SceneryPath)
	return parsed, false, nil
}

// newRootCommand wires the command tree. Each command hands its collected
// configuration to accept instead of running the application.
func newRootCommand(accept func(app.Config) error) *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "beamgrid",
		Short: "Analyze optical setups described as port-connected graphs",
		Long: `beamgrid loads an optical setup, either an HCL scenery (a .hcl file or a
directory of them) or a saved .yaml graph, and propagates light through it
in topological order.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	root.PersistentFlags().IntVar(&g.healthcheckPort, "healthcheck-port", 0, "Port serving /health and /metrics while the command runs. 0 is disabled.")

	base := func(command, path string) app.Config {
		return app.Config{
			Command:         command,
			SceneryPath:     path,
			LogLevel:        strings.ToLower(g.logLevel),
			LogFormat:       strings.ToLower(g.logFormat),
			HealthcheckPort: g.healthcheckPort,
		}
	}

	root.AddCommand(
		newAnalyzeCommand(base, accept),
		newExportCommand(base, accept),
		newDOTCommand(base, accept),
	)
	return root
}

func newAnalyzeCommand(base func(string, string) app.Config, accept func(app.Config) error) *cobra.Command {
	var (
		output   string
		inverted bool
		inputs   []string
	)
	cmd := &cobra.Command{
		Use:   "analyze PATH",
		Short: "Propagate light through the setup and print the energy at every output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := base(app.CommandAnalyze, args[0])
			cfg.OutputPath = output
			if cmd.Flags().Changed("inverted") {
				cfg.Inverted = &inverted
			}
			parsed, err := parseInputs(inputs)
			if err != nil {
				return err
			}
			cfg.Inputs = parsed
			return accept(cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also save the graph to this .yaml file.")
	cmd.Flags().BoolVar(&inverted, "inverted", false, "Run the setup backwards, overriding the scenery's analysis block.")
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "Light entering an external input as name=joules. Repeatable.")
	return cmd
}

func newExportCommand(base func(string, string) app.Config, accept func(app.Config) error) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Build the setup and save it as a .yaml graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := base(app.CommandExport, args[0])
			cfg.OutputPath = output
			return accept(cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination .yaml file.")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newDOTCommand(base func(string, string) app.Config, accept func(app.Config) error) *cobra.Command {
	var rankdir string
	cmd := &cobra.Command{
		Use:   "dot PATH",
		Short: "Print the setup as a Graphviz digraph",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := base(app.CommandDOT, args[0])
			cfg.RankDir = strings.ToUpper(rankdir)
			return accept(cfg)
		},
	}
	cmd.Flags().StringVar(&rankdir, "rankdir", "TB", "Layout direction: 'TB' or 'LR'.")
	return cmd
}

// parseInputs turns name=joules pairs into a map. A name given twice is an
// error rather than a silent override.
func parseInputs(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	inputs := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --input %q: expected name=joules", pair)
		}
		joules, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --input %q: %w", pair, err)
		}
		if _, dup := inputs[name]; dup {
			return nil, fmt.Errorf("invalid --input %q: input %q given more than once", pair, name)
		}
		inputs[name] = joules
	}
	return inputs, nil
}
