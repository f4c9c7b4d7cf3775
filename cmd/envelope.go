package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorcf/internal/capacity"
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/diagram"
	"github.com/alexiusacademia/gorcf/internal/gb"
	"github.com/spf13/cobra"
)

var (
	// Section inputs
	envWidth  float64
	envHeight float64
	envSteel  float64

	// Query / export
	envAxial      float64
	envExportFile string
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope",
	Short: "Compute the P-M interaction envelope of a column section",
	Long: `Trace the axial-moment capacity envelope of a rectangular column
section with symmetric reinforcement, C30 concrete and HRB400 steel,
the way the optimizer checks its columns.

Examples:
  # Key points of a 400x500 column with the default 4φ22 steel
  gorcf envelope --width 400 --height 500

  # Moment capacity under 800 kN compression, plus a plot
  gorcf envelope --width 400 --height 500 --axial 800 -o pm.png`,
	Run: runEnvelope,
}

func init() {
	rootCmd.AddCommand(envelopeCmd)

	// Geometry flags
	envelopeCmd.Flags().Float64VarP(&envWidth, "width", "b", 0, "Section width (mm) [required]")
	envelopeCmd.Flags().Float64Var(&envHeight, "height", 0, "Section height (mm) [required]")
	envelopeCmd.Flags().Float64Var(&envSteel, "steel", capacity.DefaultColumnAsMM2, "Total longitudinal steel As (mm²)")

	envelopeCmd.MarkFlagRequired("width")
	envelopeCmd.MarkFlagRequired("height")

	// Query / export
	envelopeCmd.Flags().Float64VarP(&envAxial, "axial", "n", 0, "Report moment capacity at this axial load (kN, compression positive)")
	envelopeCmd.Flags().StringVarP(&envExportFile, "output", "o", "", "Export envelope plot to file (png, svg, pdf)")
}

func runEnvelope(cmd *cobra.Command, args []string) {
	if envSteel <= 0 {
		fmt.Println("Error: steel area must be positive")
		return
	}

	sec, err := catalog.NewSection(envWidth, envHeight)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	mat := gb.C30HRB400()
	env := capacity.ComputeEnvelope(sec, mat, envSteel)

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     P-M INTERACTION ENVELOPE - GB 50010-2010")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Section:\t%s\n", sec.Name())
	fmt.Fprintf(w, "  Total Steel (As):\t%.0f mm²\n", envSteel)
	fmt.Fprintf(w, "  Steel Ratio (ρ):\t%.4f\n", envSteel/sec.AreaMM2)
	fmt.Fprintf(w, "  Concrete:\tC30 (fc = %.1f MPa)\n", mat.Fc)
	fmt.Fprintf(w, "  Steel:\tHRB400 (fy = %.0f MPa)\n", mat.Fy)
	w.Flush()
	fmt.Println()

	fmt.Println("KEY POINTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	bal := env.BalancedPoint()
	fmt.Fprintf(w, "  Pure Compression:\tN = %.1f kN\n", env.PureCompression().P)
	fmt.Fprintf(w, "  Balanced Point:\tN = %.1f kN, M = %.1f kN·m\n", bal.P, bal.M)
	fmt.Fprintf(w, "  Pure Flexure:\tM = %.1f kN·m\n", env.PureFlexureMoment())
	fmt.Fprintf(w, "  Pure Tension:\tN = %.1f kN\n", env.PureTension().P)
	w.Flush()
	fmt.Println()

	if cmd.Flags().Changed("axial") {
		mcap := env.CapacityAt(envAxial)
		fmt.Println("CAPACITY QUERY:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		if mcap <= 0 {
			fmt.Printf("  N = %.1f kN lies outside the envelope's axial range\n", envAxial)
		} else {
			fmt.Printf("  At N = %.1f kN:  Mcap = %.1f kN·m\n", envAxial, mcap)
		}
		fmt.Println()
	}

	if envExportFile != "" {
		var pts []diagram.DemandPoint
		if cmd.Flags().Changed("axial") {
			pts = append(pts, diagram.DemandPoint{P: envAxial, M: env.CapacityAt(envAxial)})
		}
		if err := diagram.SaveEnvelopePlot(env, pts, envExportFile); err != nil {
			fmt.Printf("Error exporting envelope plot: %v\n", err)
		} else {
			fmt.Printf("Envelope plot saved to: %s\n", envExportFile)
		}
	}
}
