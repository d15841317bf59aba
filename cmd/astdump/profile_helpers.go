package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"astdump/internal/prof"
)

var profSession *prof.Session

func profileOptions(cmd *cobra.Command) (prof.Options, error) {
	var opts prof.Options
	var err error
	if opts.CPUPath, err = cmd.Flags().GetString("cpu-profile"); err != nil {
		return opts, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemPath, err = cmd.Flags().GetString("mem-profile"); err != nil {
		return opts, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.TracePath, err = cmd.Flags().GetString("runtime-trace"); err != nil {
		return opts, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return opts, nil
}

// startProfiling runs before every command; stopProfiling is called from
// main once the command has returned, so failing commands are profiled too.
func startProfiling(cmd *cobra.Command, _ []string) error {
	opts, err := profileOptions(cmd)
	if err != nil || !opts.Enabled() {
		return err
	}
	s, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	profSession = s
	return nil
}

func stopProfiling() error {
	s := profSession
	profSession = nil
	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	return nil
}
