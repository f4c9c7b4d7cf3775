package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/gorcf/internal/version"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gorcf",
	Short: "Reinforced Concrete Frame Optimization Tool",
	Long: `gorcf - Go Reinforced Concrete Frame Optimizer

A CLI tool that searches a discrete cross-section catalog for the
cheapest feasible member assignment of a plane concrete frame,
verified against GB 50010-2010.

This tool helps structural engineers perform:
  - Genetic-algorithm cost optimization over a section catalog
  - Plane-frame analysis under GB 50009 load combinations
  - Strength checks (flexure, shear, P-M interaction, axial ratio)
  - Serviceability checks (deflection, crack width)
  - Result reporting (Excel workbook, P-M and convergence plots)

All calculations follow GB 50010-2010 provisions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gorcf v%-49s║\n", version.Version)
		fmt.Println("  ║   Go Reinforced Concrete Frame Optimizer                  ║")
		fmt.Printf("  ║   Alexius S. Academia ©  %-35s║\n", version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool that finds the lowest-cost cross-section assignment")
		fmt.Println("  of a multi-story concrete frame, verified per GB 50010-2010.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Genetic search over a discrete b×h section catalog")
		fmt.Println("    • Plane-frame analysis under GB 50009 combinations")
		fmt.Println("    • Flexure, shear, P-M, deflection and crack checks")
		fmt.Println("    • Excel workbook and P-M / convergence plot export")
		fmt.Println()
		fmt.Println("  Use 'gorcf --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
