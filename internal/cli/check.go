package cli

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qsortprop/internal/config"
	"github.com/roach88/qsortprop/internal/proptest"
	"github.com/roach88/qsortprop/internal/qsort"
	"github.com/roach88/qsortprop/internal/store"
)

// PropertyName identifies the sort property in results and the
// regression corpus.
const PropertyName = "sort_is_correct_permutation"

// ExtendedEnv opts into ignored properties when set to "1".
const ExtendedEnv = "QSORTPROP_EXTENDED"

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Config         string
	Profile        string
	Trials         int
	Timeout        time.Duration
	Seed           uint64
	Pivot          string
	Workers        int
	MaxLen         int
	MaxShrinkSteps int
	Extended       bool
	Database       string

	// Engine overrides the sort under test (for testing). If nil, the
	// quicksort engine with the selected pivot strategy is used.
	Engine func([]uint8)
}

// CheckFailure describes a failed check.
type CheckFailure struct {
	Code             string  `json:"code"`
	Message          string  `json:"message"`
	Trial            int     `json:"trial"`
	Original         []int64 `json:"original"`
	Minimal          []int64 `json:"minimal"`
	Shrinks          int     `json:"shrinks"`
	ShrinkExhausted  bool    `json:"shrink_exhausted,omitempty"`
	CounterexampleID string  `json:"counterexample_id,omitempty"`
}

// CheckResult is the outcome of the check command.
type CheckResult struct {
	Property    string        `json:"property"`
	Status      string        `json:"status"`
	Pivot       string        `json:"pivot"`
	Seed        uint64        `json:"seed"`
	Trials      int           `json:"trials"`
	Regressions int           `json:"regressions"`
	Failure     *CheckFailure `json:"failure,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return newCheckCommand(&CheckOptions{RootOptions: rootOpts})
}

func newCheckCommand(opts *CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the sort property",
		Long: `Run the property "sort is a correct permutation into non-decreasing order".

Random byte sequences are generated, sorted in place, and compared with an
untouched snapshot. A failure is replayed to detect flakiness and then
shrunk to a minimal counterexample.

The property is ignored by default; pass --extended (or set
QSORTPROP_EXTENDED=1) to run it. Settings come from a CUE profile
(--config/--profile, default: the built-in "default" profile); flags
override profile values.

With --db, counterexamples stored by earlier runs are checked before any
random trial, and new counterexamples are recorded.

Exit codes:
  0 - Passed or skipped
  1 - Property violation or flaky failure
  2 - Command error (invalid flags, profile, database, etc.)
  3 - A case exceeded its time budget

Examples:
  qsortprop check --extended
  qsortprop check --extended --trials 10000 --pivot random --workers 8
  qsortprop check --config profiles.cue --profile nightly --db corpus.db
  qsortprop check --extended --seed 42 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "CUE profile file (default: built-in profiles)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "profile name")
	cmd.Flags().IntVar(&opts.Trials, "trials", 0, "number of random trials")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "per-case time budget")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "base seed (default: time-based)")
	cmd.Flags().StringVar(&opts.Pivot, "pivot", "", "pivot strategy (first|last|median3|random)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "parallel trial workers")
	cmd.Flags().IntVar(&opts.MaxLen, "max-len", 0, "maximum generated length")
	cmd.Flags().IntVar(&opts.MaxShrinkSteps, "max-shrink-steps", 0, "shrink step budget")
	cmd.Flags().BoolVar(&opts.Extended, "extended", false, "run properties that are ignored by default")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite regression corpus")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	profile, err := loadProfile(opts.Config, opts.Profile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load profile", err)
	}
	applyCheckFlags(cmd, opts, &profile)
	if profile.MaxLen < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("max-len must be non-negative, got %d", profile.MaxLen))
	}

	cfg, err := profile.Config()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	cfg.Extended = cfg.Extended || opts.Extended || os.Getenv(ExtendedEnv) == "1"

	pivot, err := profile.PivotStrategy(cfg.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pivot", err)
	}
	pivotName := profile.Pivot
	if pivotName == "" {
		pivotName = qsort.PivotMedian
	}

	engine := opts.Engine
	if engine == nil {
		engine = func(s []uint8) { qsort.SortStrategy(s, cmp.Compare[uint8], pivot) }
	}

	formatter.VerboseLog("profile %s: trials=%d timeout=%s pivot=%s workers=%d", profile.Name, cfg.Trials, cfg.Timeout, pivotName, cfg.Workers)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
	}

	var regressions [][]uint8
	if st != nil && !cfg.Skipped() {
		corpus, err := st.ReadCounterexamples(ctx, PropertyName)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read regression corpus", err)
		}
		for _, ce := range corpus {
			input, err := toBytes(ce.Input)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("corrupt counterexample %s", ce.ID), err)
			}
			regressions = append(regressions, input)
		}
		slog.Info("regression corpus loaded", "count", len(regressions))
	}

	target := proptest.SortTarget(PropertyName, proptest.SliceOf(proptest.Uint8(), profile.MaxLen), engine)
	runner := proptest.NewRunner(cfg, target).
		WithLogger(slog.Default()).
		WithRegressions(regressions...)

	res, err := runner.Run(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "property run aborted", err)
	}

	result := CheckResult{
		Property:    PropertyName,
		Status:      string(res.Status),
		Pivot:       pivotName,
		Seed:        res.Seed,
		Trials:      res.Trials,
		Regressions: res.Regressions,
	}
	if res.Err != nil {
		result.Failure = &CheckFailure{
			Code:            string(res.Err.Code),
			Message:         res.Err.Message,
			Trial:           res.Err.Trial,
			Original:        toInt64(res.Original),
			Minimal:         toInt64(res.Minimal),
			Shrinks:         res.Err.Shrinks,
			ShrinkExhausted: res.ShrinkExhausted,
		}
	}

	var runID string
	if st != nil && res.Status != proptest.StatusSkipped {
		runID, err = recordCheck(ctx, st, result)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	return outputCheck(formatter, result, runID)
}

// loadProfile reads the named profile from path, or from the built-in set
// when path is empty.
func loadProfile(path, name string) (config.Profile, error) {
	var (
		set *config.Set
		err error
	)
	if path != "" {
		set, err = config.Load(path)
	} else {
		set, err = config.LoadBuiltin()
	}
	if err != nil {
		return config.Profile{}, err
	}
	return set.Get(name)
}

// applyCheckFlags overrides profile values with explicitly set flags.
func applyCheckFlags(cmd *cobra.Command, opts *CheckOptions, p *config.Profile) {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		p.Trials = opts.Trials
	}
	if flags.Changed("timeout") {
		p.Timeout = opts.Timeout.String()
	}
	if flags.Changed("seed") {
		seed := opts.Seed
		p.Seed = &seed
	}
	if flags.Changed("pivot") {
		p.Pivot = opts.Pivot
	}
	if flags.Changed("workers") {
		p.Workers = opts.Workers
	}
	if flags.Changed("max-len") {
		p.MaxLen = opts.MaxLen
	}
	if flags.Changed("max-shrink-steps") {
		p.MaxShrinkSteps = opts.MaxShrinkSteps
	}
}

// recordCheck stores the run and, on failure, its counterexample.
func recordCheck(ctx context.Context, st *store.Store, result CheckResult) (string, error) {
	runID, err := st.WriteRun(ctx, store.Run{
		Property:    result.Property,
		Pivot:       result.Pivot,
		Seed:        result.Seed,
		Trials:      result.Trials,
		Regressions: result.Regressions,
		Status:      result.Status,
	})
	if err != nil {
		return "", err
	}

	if f := result.Failure; f != nil {
		id, err := st.WriteCounterexample(ctx, store.Counterexample{
			Property: result.Property,
			Code:     f.Code,
			Input:    f.Minimal,
			Original: f.Original,
			Seed:     result.Seed,
			Trial:    f.Trial,
			Shrinks:  f.Shrinks,
			Message:  f.Message,
			LastRun:  runID,
		})
		if err != nil {
			return "", err
		}
		f.CounterexampleID = id
		slog.Info("counterexample recorded", "id", id, "code", f.Code)
	}

	return runID, nil
}

func outputCheck(formatter *OutputFormatter, result CheckResult, runID string) error {
	exit := checkExitCode(result)

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result, RunID: runID}
		if result.Failure != nil {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    failureErrCode(result.Failure.Code),
				Message: result.Failure.Message,
			}
		}
		if err := writeJSON(formatter.Writer, response); err != nil {
			return err
		}
	} else {
		writeCheckText(formatter, result)
	}

	if exit != ExitSuccess {
		return NewExitError(exit, fmt.Sprintf("%s %s", result.Property, result.Status))
	}
	return nil
}

func writeCheckText(formatter *OutputFormatter, result CheckResult) {
	w := formatter.Writer

	switch proptest.Status(result.Status) {
	case proptest.StatusSkipped:
		fmt.Fprintf(w, "- %s skipped (ignored by default; pass --extended to run)\n", result.Property)
		return
	case proptest.StatusPassed:
		fmt.Fprintf(w, "✓ %s passed (%d trials, %d regressions, seed=%d, pivot=%s)\n",
			result.Property, result.Trials, result.Regressions, result.Seed, result.Pivot)
		return
	}

	f := result.Failure
	fmt.Fprintf(w, "✗ %s %s: %s: %s\n", result.Property, result.Status, f.Code, f.Message)
	if f.Trial < 0 {
		fmt.Fprintf(w, "  source:   regression corpus\n")
	} else {
		fmt.Fprintf(w, "  seed:     %d\n", result.Seed)
		fmt.Fprintf(w, "  trial:    %d\n", f.Trial)
	}
	fmt.Fprintf(w, "  pivot:    %s\n", result.Pivot)
	fmt.Fprintf(w, "  original: %v\n", f.Original)
	fmt.Fprintf(w, "  minimal:  %v (%d shrinks)\n", f.Minimal, f.Shrinks)
	if f.ShrinkExhausted {
		fmt.Fprintln(w, "  shrinking stopped at its step budget")
	}
	if f.CounterexampleID != "" {
		fmt.Fprintf(w, "  stored:   %s\n", f.CounterexampleID)
	}
}

// checkExitCode maps a result to the process exit code.
func checkExitCode(result CheckResult) int {
	switch proptest.Status(result.Status) {
	case proptest.StatusPassed, proptest.StatusSkipped:
		return ExitSuccess
	case proptest.StatusTimeout:
		return ExitTimeout
	default:
		return ExitFailure
	}
}

func failureErrCode(code string) string {
	switch proptest.FailureCode(code) {
	case proptest.CodeTimeout:
		return ErrCodeTimeout
	case proptest.CodeFlaky:
		return ErrCodeFlaky
	default:
		return ErrCodeViolation
	}
}

// setupLogging installs a text logger on stderr; debug level under --verbose.
func setupLogging(verbose bool) {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
}
