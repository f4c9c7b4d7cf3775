package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	// Catalog bounds (mm)
	catMinWidth  float64
	catMaxWidth  float64
	catMinHeight float64
	catMaxHeight float64
	catStep      float64
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the cross-section catalog with properties and rates",
	Long: `Enumerate the rectangular sections the optimizer can assign,
with their gross properties and the composite cost rate per metre
(concrete, steel at the fixed ratio, formwork, indirect factor).

Examples:
  # The default 77-section library
  gorcf catalog

  # A coarser custom grid
  gorcf catalog --min-width 250 --max-width 400 --step 50`,
	Run: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().Float64Var(&catMinWidth, "min-width", 200, "Smallest section width (mm)")
	catalogCmd.Flags().Float64Var(&catMaxWidth, "max-width", 500, "Largest section width (mm)")
	catalogCmd.Flags().Float64Var(&catMinHeight, "min-height", 300, "Smallest section height (mm)")
	catalogCmd.Flags().Float64Var(&catMaxHeight, "max-height", 800, "Largest section height (mm)")
	catalogCmd.Flags().Float64Var(&catStep, "step", 50, "Dimension step (mm)")
}

func runCatalog(cmd *cobra.Command, args []string) {
	cat, err := catalog.New(catMinWidth, catMaxWidth, catMinHeight, catMaxHeight, catStep)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     SECTION CATALOG")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tSection\tA (mm²)\tIg (mm⁴)\tW (mm³)\tCost/m\n")
	fmt.Fprintf(w, "  ─\t───────\t───────\t────────\t───────\t──────\n")
	for i, sec := range cat.Sections() {
		fmt.Fprintf(w, "  %d\t%s\t%.0f\t%.3e\t%.3e\t¥%.2f\n",
			i, sec.Name(), sec.AreaMM2, sec.GrossInertiaMM4, sec.SectionModulusMM3, sec.CostPerMeter)
	}
	w.Flush()
	fmt.Println()

	cheapest := cat.ByIndex(0)
	dearest := cat.ByIndex(0)
	for _, sec := range cat.Sections() {
		if sec.CostPerMeter < cheapest.CostPerMeter {
			cheapest = sec
		}
		if sec.CostPerMeter > dearest.CostPerMeter {
			dearest = sec
		}
	}
	fmt.Printf("  %d sections, ¥%.2f/m (%s) to ¥%.2f/m (%s)\n",
		cat.Len(), cheapest.CostPerMeter, cheapest.Name(), dearest.CostPerMeter, dearest.Name())
	fmt.Println()
}
