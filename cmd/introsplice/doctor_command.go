package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"introsplice/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, directories and the history ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var lines []string
			failures := 0

			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, defaults in use)"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))
			if err := requireIntroDefaults(cfg); err != nil {
				failures++
				lines = append(lines, renderStatusLine("Intro defaults", statusError, err.Error(), colorize))
			} else {
				lines = append(lines, renderStatusLine("Intro defaults", statusOK,
					fmt.Sprintf("%s, %s padding, %gs + %gs", cfg.Intro.Style, cfg.Intro.PaddingColor, cfg.Intro.Duration, cfg.Intro.TransitionSeconds), colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				switch {
				case status.Available:
					lines = append(lines, renderStatusLine(status.Name, statusOK, status.Command, colorize))
				case status.Optional:
					lines = append(lines, renderStatusLine(status.Name, statusWarn, status.Detail, colorize))
				default:
					failures++
					lines = append(lines, renderStatusLine(status.Name, statusError, status.Detail, colorize))
				}
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Storage", colorize)...)
			checks := []preflight.Result{
				preflight.CheckCreatableDirectory("Output directory", cfg.Paths.OutputDir),
				preflight.CheckCreatableDirectory("Work directory", cfg.Paths.WorkDir),
				preflight.CheckHistory(cfg),
			}
			if cfg.Paths.LogDir != "" {
				checks = append(checks, preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
			}
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
					failures++
				}
				lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			lines = append(lines, renderStatusLine("Parallel clips", statusInfo, yesNo(cfg.Encoding.ParallelClips), colorize))
			lines = append(lines, renderStatusLine("Concat mode", statusInfo, cfg.Encoding.ConcatMode, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failures > 0 {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
}
