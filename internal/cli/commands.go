package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Raoof128/SCRVS/internal/config"
	"github.com/Raoof128/SCRVS/internal/engine"
	"github.com/Raoof128/SCRVS/internal/logger"
	"github.com/Raoof128/SCRVS/internal/model"
	"github.com/Raoof128/SCRVS/internal/report"
	"github.com/Raoof128/SCRVS/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newScanCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newInitCmd())
}

func newScanCmd() *cobra.Command {
	var (
		format        string
		outputFile    string
		failOn        string
		criticalOnly  bool
		useTUI        bool
		baselinePath  string
		writeBaseline string
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan Solidity sources for vulnerabilities",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			cfg, cfgPath, err := config.Load(path)
			log := logger.New(&cfg, "scrvs")
			if err != nil {
				log.Warn("config not usable, falling back to defaults", "error", err)
			} else if cfgPath != "" {
				log.Debug("loaded config", "path", cfgPath)
			}

			eng := engine.New(cfg, log)
			result, err := eng.Scan(cmd.Context(), model.ScanRequest{Path: path, BaselinePath: baselinePath})
			if err != nil {
				return err
			}
			findings := result.Findings
			if criticalOnly {
				findings = report.FilterCriticalOnly(findings)
			}

			if writeBaseline != "" {
				if err := engine.WriteBaseline(writeBaseline, findings); err != nil {
					return fmt.Errorf("writing baseline: %w", err)
				}
			}

			if useTUI {
				return tui.Run(findings)
			}

			out := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := render(out, format, result, findings, path); err != nil {
				return err
			}

			if failOn != "" && failOn != "none" {
				threshold := model.ParseSeverity(failOn)
				for _, f := range findings {
					if model.SeverityGTE(f.Severity, threshold) {
						return fmt.Errorf("findings at or above %s severity", threshold)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|csv|markdown|sarif")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file instead of stdout")
	cmd.Flags().StringVar(&failOn, "fail-on", "HIGH", "Exit non-zero when findings reach this severity (none to disable)")
	cmd.Flags().BoolVar(&criticalOnly, "critical-only", false, "Report only CRITICAL and HIGH findings")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Browse findings interactively")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "Suppress findings recorded in this baseline file")
	cmd.Flags().StringVar(&writeBaseline, "write-baseline", "", "Write finding fingerprints to this baseline file")
	return cmd
}

func render(out io.Writer, format string, result *model.ScanResult, findings []model.Finding, path string) error {
	// renderers consume the possibly critical-only filtered slice
	filtered := *result
	filtered.Findings = findings
	switch format {
	case "json":
		return report.WriteJSON(out, &filtered, path)
	case "csv":
		return report.WriteCSV(out, findings)
	case "markdown":
		return report.WriteMarkdown(out, &filtered, path)
	case "sarif":
		return report.WriteSARIF(out, findings)
	default:
		report.WriteTerminal(out, findings, path)
		return nil
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [path]",
		Short: "Compute the 0-100 security score for a path",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			cfg, _, _ := config.Load(path)
			log := logger.New(&cfg, "scrvs")
			eng := engine.New(cfg, log)
			result, err := eng.Scan(cmd.Context(), model.ScanRequest{Path: path})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Security score for %s: %d/100\n", path, model.Score(result.Findings))
			fmt.Fprintf(out, "Total findings: %d\n", len(result.Findings))
			tally := model.Tally(result.Findings)
			for _, severity := range model.SeverityOrder {
				if tally[severity] > 0 {
					fmt.Fprintf(out, "  %s: %d\n", severity, tally[severity])
				}
			}
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rules", Short: "List available rules"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in detectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			eng := engine.New(cfg, nil)
			for _, d := range eng.Detectors() {
				m := d.Meta()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.ID, m.Severity, m.Title)
			}
			return nil
		},
	})
	return cmd
}

func newInitCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a " + config.FileName + " in the target directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = "."
			}
			path, err := config.Write(config.Default(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the config file to")
	return cmd
}
