package cli

import (
	"bufio"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qsortprop/internal/qsort"
)

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Pivot string
	Seed  uint64
}

// SortResult is the output of the sort command.
type SortResult struct {
	Pivot  string  `json:"pivot"`
	Input  []int64 `json:"input"`
	Output []int64 `json:"output"`
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort [numbers...]",
		Short: "Sort integers with the quicksort engine",
		Long: `Sort integers with the quicksort engine.

Numbers are taken from the arguments, or read whitespace-separated from
stdin when no arguments are given.

Examples:
  qsortprop sort 3 1 4 1 5 9 2 6
  qsortprop sort --pivot random --seed 7 -- 5 -3 0
  echo "9 7 5 3 1" | qsortprop sort --format json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pivot, "pivot", qsort.PivotMedian, "pivot strategy (first|last|median3|random)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for the random pivot strategy")

	return cmd
}

func runSort(opts *SortOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	pivot, err := qsort.ParsePivot(opts.Pivot, opts.Seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pivot", err)
	}

	if len(args) == 0 {
		args, err = readFields(cmd)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
	}

	input, err := parseInts(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid input", err)
	}

	output := slices.Clone(input)
	qsort.SortStrategy(output, cmp.Compare[int64], pivot)
	formatter.VerboseLog("sorted %d element(s) with pivot %s", len(output), opts.Pivot)

	if formatter.Format == "json" {
		return formatter.Success(SortResult{Pivot: opts.Pivot, Input: input, Output: output})
	}

	strs := make([]string, len(output))
	for i, n := range output {
		strs[i] = strconv.FormatInt(n, 10)
	}
	fmt.Fprintln(formatter.Writer, strings.Join(strs, " "))
	return nil
}

func readFields(cmd *cobra.Command) ([]string, error) {
	var fields []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		fields = append(fields, scanner.Text())
	}
	return fields, scanner.Err()
}

func parseInts(fields []string) ([]int64, error) {
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}
