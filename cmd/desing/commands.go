// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/desing/ideal"
	"github.com/katalvlaran/desing/internal/config"
	"github.com/katalvlaran/desing/internal/report"
	"github.com/katalvlaran/desing/resolve"
)

// cli holds the flags shared by every sub-command.
type cli struct {
	configURL   string
	vars        []string
	ideal       string
	ambient     string
	divisors    []string
	center      string
	provider    string
	local       bool
	pruning     string
	checks      string
	parallelism int
	seed        int64
	maxCharts   int
	out         string
	timeout     time.Duration
	verbose     bool

	fs     afs.Service
	logger *zap.Logger
}

// session is the state a sub-command works with.
type session struct {
	cfg    *config.Config
	in     *config.Input
	kernel *ideal.Kernel
	opts   []resolve.Option
}

func newRootCmd() *cobra.Command {
	c := &cli{fs: afs.New()}
	root := &cobra.Command{
		Use:   "desing",
		Short: "Resolution of singularities of affine varieties",
		Long: `desing computes an embedded resolution of singularities following
Bravo, Encinas and Villamayor: the variety is blown up along smooth centers
until every chart is smooth and meets the exceptional divisors in normal
crossings.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if c.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			if c.logger, err = zc.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configURL, "config", "", "YAML configuration URL (file, mem or cloud storage)")
	pf.StringSliceVar(&c.vars, "vars", nil, "ring variables, comma separated")
	pf.StringVar(&c.ideal, "ideal", "", "generators of the input ideal")
	pf.StringVar(&c.ambient, "ambient", "", "generators of the ambient space ideal")
	pf.StringArrayVar(&c.divisors, "divisor", nil, "an exceptional divisor (repeatable)")
	pf.StringVar(&c.provider, "provider", config.ProviderNative, "ideal arithmetic: native or singular")
	pf.BoolVar(&c.local, "local", false, "resolve at the origin only")
	pf.StringVar(&c.pruning, "pruning", "keep-pairs", "chart pruning: redundant, aggressive, keep-all, keep-pairs")
	pf.StringVar(&c.checks, "check", "", "self-checks and traces, e.g. result,charts,trace-center")
	pf.IntVar(&c.parallelism, "parallel", resolve.DefaultParallelism, "charts processed concurrently")
	pf.Int64Var(&c.seed, "seed", resolve.DefaultSeed, "seed of the hypersurface search")
	pf.IntVar(&c.maxCharts, "max-charts", 0, "abort beyond this many charts, 0 for no limit")
	pf.StringVar(&c.out, "out", "", "report URL, stdout when empty")
	pf.DurationVar(&c.timeout, "timeout", 0, "overall deadline, 0 for none")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(c.resolveCmd(), c.centerCmd(), c.blowupCmd(), c.deltaCmd())

	return root
}

// load merges the configuration file and the flags set on the command line.
func (c *cli) load(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cfg := config.Default()
	if c.configURL != "" {
		var err error
		if cfg, err = config.Load(ctx, c.fs, c.configURL); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("vars") {
		cfg.Vars = c.vars
	}
	if flags.Changed("ideal") {
		cfg.Ideal = c.ideal
	}
	if flags.Changed("ambient") {
		cfg.Ambient = c.ambient
	}
	if flags.Changed("divisor") {
		cfg.Divisors = c.divisors
	}
	if flags.Changed("center") {
		cfg.Center = c.center
	}
	if flags.Changed("provider") {
		cfg.Provider.Name = c.provider
	}
	if flags.Changed("local") {
		cfg.Mode = "global"
		if c.local {
			cfg.Mode = "local"
		}
	}
	if flags.Changed("pruning") {
		cfg.Pruning = c.pruning
	}
	if flags.Changed("check") {
		cfg.Checks = c.checks
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = c.parallelism
	}
	if flags.Changed("seed") {
		cfg.Seed = c.seed
	}
	if flags.Changed("max-charts") {
		cfg.MaxCharts = c.maxCharts
	}
	if flags.Changed("out") {
		cfg.Out = c.out
	}

	in, err := cfg.Parse()
	if err != nil {
		return nil, err
	}
	k, err := cfg.Kernel(c.logger)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(c.logger)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, in: in, kernel: k, opts: opts}, nil
}

// context applies --timeout to the command context.
func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}

	return context.WithCancel(ctx)
}

// emit writes the report to the configured URL or to the command output.
func (c *cli) emit(cmd *cobra.Command, s *session, rep *report.Report) error {
	if s.cfg.Out == "" {
		return report.Encode(cmd.OutOrStdout(), rep)
	}
	if err := report.Write(cmd.Context(), c.fs, s.cfg.Out, rep); err != nil {
		return err
	}
	c.logger.Info("report written", zap.String("url", s.cfg.Out), zap.String("kind", rep.Kind))

	return nil
}

func (c *cli) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the singularities of V(ideal)",
		Long: `Runs the full resolution and reports every chart of the tree: its
variables, variety, exceptional divisors, the images of the input
variables and the center used there. Terminal charts are resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			start := time.Now()
			tree, err := resolve.Resolve(ctx, s.kernel, s.in.Ideal, s.opts...)
			if err != nil {
				return err
			}
			c.logger.Info("resolved",
				zap.String("run", tree.RunID.String()),
				zap.Int("charts", len(tree.All)),
				zap.Int("terminal", len(tree.Terminal)),
				zap.Duration("elapsed", time.Since(start)))

			return c.emit(cmd, s, report.FromTree(tree))
		},
	}
}

func (c *cli) centerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "center",
		Short: "Print the first center of the resolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			C, err := resolve.CenterOf(ctx, s.kernel, s.in.Ideal, s.in.Object, s.opts...)
			if err != nil {
				return err
			}

			return c.emit(cmd, s, report.FromCenter(s.in.Ideal, C))
		},
	}
}

func (c *cli) blowupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blowup",
		Short: "Blow up along --center and print the charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			charts, err := resolve.BlowUpIdeal(ctx, s.kernel, s.in.Ideal, s.in.Center, s.in.Object, s.opts...)
			if err != nil {
				return err
			}

			return c.emit(cmd, s, report.FromCharts(s.in.Ideal, s.in.Center, charts))
		},
	}
	cmd.Flags().StringVar(&c.center, "center", "", "generators of the center")

	return cmd
}

func (c *cli) deltaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delta",
		Short: "Print the Delta list; its length is the order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := c.context(cmd)
			defer cancel()
			bo, err := resolve.NewBasicObject(s.in.Ideal, s.in.Object)
			if err != nil {
				return err
			}
			L, err := resolve.DeltaList(ctx, s.kernel, bo)
			if err != nil {
				return err
			}

			return c.emit(cmd, s, report.FromDelta(s.in.Ideal, L))
		},
	}
}
