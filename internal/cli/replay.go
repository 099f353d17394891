package cli

import (
	"cmp"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/qsortprop/internal/proptest"
	"github.com/roach88/qsortprop/internal/qsort"
	"github.com/roach88/qsortprop/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Pivot    string
	Timeout  time.Duration
	Prune    bool

	// Engine overrides the sort under test (for testing).
	Engine func([]uint8)
}

// ReplayEntry holds the replay result for one stored counterexample.
type ReplayEntry struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Input   []int64 `json:"input"`
	Hits    int     `json:"hits"`
	Failing bool    `json:"failing"`
	Result  string  `json:"result,omitempty"` // failure code on replay
	Message string  `json:"message,omitempty"`
	Pruned  bool    `json:"pruned,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Entries []ReplayEntry `json:"entries"`
	Total   int           `json:"total"`
	Failing int           `json:"failing"`
	Pruned  int           `json:"pruned"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return newReplayCommand(&ReplayOptions{RootOptions: rootOpts})
}

func newReplayCommand(opts *ReplayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored counterexamples",
		Long: `Replay every counterexample in the regression corpus against the engine.

Each stored input is sorted once under the per-case time budget and judged
by the sort property. With --prune, counterexamples that now pass are
removed from the corpus.

Exit codes:
  0 - All stored counterexamples pass
  1 - One or more counterexamples still fail
  2 - Command error (database not found, etc.)

Examples:
  qsortprop replay --db corpus.db
  qsortprop replay --db corpus.db --pivot first
  qsortprop replay --db corpus.db --prune --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Pivot, "pivot", qsort.PivotMedian, "pivot strategy (first|last|median3|random)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", proptest.DefaultConfig().Timeout, "per-case time budget")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "delete counterexamples that now pass")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	cfg := proptest.DefaultConfig()
	cfg.Timeout = opts.Timeout
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	pivot, err := qsort.ParsePivot(opts.Pivot, cfg.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pivot", err)
	}
	engine := opts.Engine
	if engine == nil {
		engine = func(s []uint8) { qsort.SortStrategy(s, cmp.Compare[uint8], pivot) }
	}

	corpus, err := st.ReadCounterexamples(ctx, PropertyName)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read regression corpus", err)
	}

	if len(corpus) == 0 {
		if opts.Format == "json" {
			return writeJSON(cmd.OutOrStdout(), CLIResponse{
				Status: "ok",
				Data:   ReplayResult{Entries: []ReplayEntry{}},
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No counterexamples stored.")
		return nil
	}

	// MaxLen does not matter here: only stored inputs are evaluated.
	target := proptest.SortTarget(PropertyName, proptest.SliceOf(proptest.Uint8(), 0), engine)
	runner := proptest.NewRunner(cfg, target).WithLogger(slog.Default())

	result := ReplayResult{
		Entries: make([]ReplayEntry, 0, len(corpus)),
		Total:   len(corpus),
	}

	for _, ce := range corpus {
		entry := ReplayEntry{
			ID:    ce.ID,
			Code:  ce.Code,
			Input: ce.Input,
			Hits:  ce.Hits,
		}

		input, err := toBytes(ce.Input)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("corrupt counterexample %s", ce.ID), err)
		}
		fe, err := runner.Check(ctx, input)
		if err != nil {
			return WrapExitError(ExitCommandError, "replay aborted", err)
		}

		if fe != nil {
			entry.Failing = true
			entry.Result = string(fe.Code)
			entry.Message = fe.Message
			result.Failing++
		} else if opts.Prune {
			if err := st.DeleteCounterexample(ctx, ce.ID); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to prune %s", ce.ID), err)
			}
			entry.Pruned = true
			result.Pruned++
		}

		slog.Debug("counterexample replayed", "id", ce.ID, "failing", entry.Failing)
		result.Entries = append(result.Entries, entry)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result)
}

func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failing > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeViolation,
			Message: fmt.Sprintf("%d counterexample(s) still fail", result.Failing),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if result.Failing > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d counterexample(s) still fail", result.Failing))
	}
	return nil
}

func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()

	for _, e := range result.Entries {
		switch {
		case e.Failing:
			fmt.Fprintf(w, "✗ %s %v: %s: %s\n", shortID(e.ID), e.Input, e.Result, e.Message)
		case e.Pruned:
			fmt.Fprintf(w, "✓ %s %v (pruned)\n", shortID(e.ID), e.Input)
		default:
			fmt.Fprintf(w, "✓ %s %v\n", shortID(e.ID), e.Input)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Replay Summary: %d failing, %d passing, %d pruned, %d total\n",
		result.Failing, result.Total-result.Failing, result.Pruned, result.Total)

	if result.Failing > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d counterexample(s) still fail", result.Failing))
	}
	return nil
}

// shortID abbreviates a counterexample ID for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
