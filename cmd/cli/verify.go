package main

import (
	"fmt"

	"ix-simulation/internal/verify"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [check...]",
	Short: "Recompute the capacity hand checks",
	Long: `Runs the named verification checks (all when none is given) with their
default parameters and prints every intermediate value. Exits 1 when a
check does not match its expected value.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	checks := verify.Checks()
	if len(args) > 0 && !(len(args) == 1 && args[0] == "all") {
		checks = make([]verify.Check, 0, len(args))
		for _, name := range args {
			c, ok := verify.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown check %q", name)
			}
			checks = append(checks, c)
		}
	}

	failed := 0
	for _, c := range checks {
		res, err := c.Run(nil)
		if err != nil {
			return err
		}
		verify.Report(cmd.OutOrStdout(), res)
		if !res.Passed {
			failed++
		}
	}
	if failed > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d check(s) failed", failed)}
	}
	return nil
}
