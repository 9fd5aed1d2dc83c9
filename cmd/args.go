package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// parseID parses a positive numeric identifier from a positional argument.
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (received %q)", name, raw)
	}
	return id, nil
}

// idArg validates that the command receives exactly one positive id.
func idArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		_, err := parseID(name, args[0])
		return err
	}
}
