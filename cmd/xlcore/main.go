// Command xlcore is a thin CLI over the reader/writer packages: inspect a
// workbook's sheet names and dimensions via the metadata fast path, or
// round-trip it through reader.Load and writer.Write (a workbook loaded and
// left unmodified is written back as a verbatim copy). It exists
// so the module is runnable end-to-end the way the retrieval pack's own
// cmd/ conventions are (Ap3pp3rs94-Chartly2.0's per-service cmd/ layout,
// syncopasoft-syncopa-core's cmd/sampletool), not as a feature surface of
// its own -- the fluent builder API this spec excludes is the intended
// day-to-day entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gosheetkit/xlcore/reader"
	"github.com/gosheetkit/xlcore/writer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "xlcore",
		Short:         "inspect and round-trip xlsx packages",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInspectCmd(), newConvertCmd())
	return root
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "print sheet names and dimensions using the metadata fast path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			start := time.Now()
			sheets, err := reader.Read(path, reader.DefaultConfig())
			if err != nil {
				return fmt.Errorf("inspecting %s: %w", path, err)
			}
			slog.Debug("metadata scan complete", "path", path, "sheets", len(sheets), "elapsed", time.Since(start))
			for _, s := range sheets {
				if s.HasDimension {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Dimension)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(empty)\n", s.Name)
				}
			}
			return nil
		},
	}
}

func newConvertCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "round-trip a workbook through reader.Load and writer.Write",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			cfg, err := resolvePreset(preset)
			if err != nil {
				return err
			}

			start := time.Now()
			wb, warnings, err := reader.Load(in, reader.DefaultConfig())
			if err != nil {
				return fmt.Errorf("loading %s: %w", in, err)
			}
			for _, w := range warnings {
				slog.Warn("load warning", "code", w.Code, "message", w.Message)
			}
			slog.Debug("loaded workbook", "path", in, "sheets", len(wb.Sheets()), "elapsed", time.Since(start))

			if err := writer.Write(wb, out, cfg); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			slog.Info("converted", "in", in, "out", out, "preset", preset)
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "default", "writer preset: default, secure, or fast")
	return cmd
}

func resolvePreset(name string) (writer.Config, error) {
	switch name {
	case "default":
		return writer.DefaultConfig(), nil
	case "secure":
		return writer.SecureConfig(), nil
	case "fast":
		return writer.FastConfig(), nil
	default:
		return writer.Config{}, fmt.Errorf("unknown writer preset %q (want default, secure, or fast)", name)
	}
}
