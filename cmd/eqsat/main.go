// Command eqsat runs equality saturation over a fixed example term and
// rewrite set and prints the extracted result. It takes no required
// arguments, per this engine's external-interface design: --iters and
// --verbose only tune an otherwise-fixed demo run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rogpeppe/eqsat/saturate"
)

var (
	iters   int
	verbose bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eqsat",
		Short: "Run equality saturation over a fixed example term",
		Long: `eqsat constructs a fixed example term and rewrite set,
runs equality saturation to a fixed point (or until the iteration
budget runs out), and prints the smallest equivalent term.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
	cmd.Flags().IntVar(&iters, "iters", saturate.DefaultMaxIter, "iteration budget")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log the iteration trace")
	return cmd
}

// exampleTerm and exampleRuleSources reproduce the strength-reduction example
// this engine's own demo is built around: (/ (* a 2) 2) simplifies to a
// via strength reduction, division cancellation, and the multiplicative
// identity.
const exampleTerm = "(/ (* a 2) 2)"

var exampleRuleSources = [][2]string{
	{"(* ?x 2)", "(<< ?x 1)"},
	{"(/ (* ?x ?y) ?z)", "(* ?x (/ ?y ?z))"},
	{"(/ ?x ?x)", "1"},
	{"(* ?x 1)", "?x"},
}

func runDemo(cmd *cobra.Command, args []string) error {
	rules := make([]saturate.Rule, len(exampleRuleSources))
	for i, src := range exampleRuleSources {
		r, err := saturate.ParseRule(src[0], src[1])
		if err != nil {
			return err
		}
		rules[i] = r
	}

	var logger saturate.Logger
	if verbose {
		logger = &saturate.StdLogger{Writer: cmd.OutOrStdout(), Verbose: true}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "term:  %s\n", exampleTerm)
	for _, r := range rules {
		fmt.Fprintf(cmd.OutOrStdout(), "rule:  %s\n", r)
	}

	result, stats, err := saturate.Saturate(exampleTerm, rules, iters, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "result: %s (%d iteration(s), converged=%v)\n",
		result, stats.Iterations, stats.Converged)
	return nil
}
