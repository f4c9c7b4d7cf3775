package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/gorcf/internal/config"
	"github.com/alexiusacademia/gorcf/internal/diagram"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/optimize"
	"github.com/alexiusacademia/gorcf/internal/report"
	"github.com/alexiusacademia/gorcf/internal/verify"
	"github.com/spf13/cobra"
)

var (
	// Run configuration
	optConfigFile string
	optInitConfig bool

	// GA overrides
	optPopulation  int
	optGenerations int
	optSeed        int64
	optParallel    int

	// Output options
	optWorkbook        string
	optEnvelopePlot    string
	optConvergencePlot string
	optNoChart         bool
	optQuiet           bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search the section catalog for the cheapest feasible frame",
	Long: `Run the genetic search over the cross-section catalog and report
the lowest-cost member assignment that passes every GB 50010-2010
check. Frame geometry, loads, catalog bounds and GA parameters come
from a YAML configuration file; common GA knobs can be overridden
on the command line.

Without --config the built-in defaults are used (two 6 m bays,
three 3.3 m stories, dead 20 / live 10 kN/m).

Examples:
  # Write a starter configuration, edit it, then optimize
  gorcf optimize --init-config --config frame.yaml
  gorcf optimize --config frame.yaml

  # Defaults with a fixed seed and an Excel report
  gorcf optimize --seed 42 --workbook result.xlsx

  # Bigger search on four workers
  gorcf optimize --config frame.yaml --population 120 --parallel 4`,
	Run: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	// Configuration source
	optimizeCmd.Flags().StringVarP(&optConfigFile, "config", "f", "", "Path to the run configuration (YAML)")
	optimizeCmd.Flags().BoolVar(&optInitConfig, "init-config", false, "Write the default configuration and exit")

	// GA overrides
	optimizeCmd.Flags().IntVarP(&optPopulation, "population", "p", 0, "Population size override")
	optimizeCmd.Flags().IntVarP(&optGenerations, "generations", "g", 0, "Generation budget override")
	optimizeCmd.Flags().Int64Var(&optSeed, "seed", 0, "Random seed override (0 draws from the clock)")
	optimizeCmd.Flags().IntVar(&optParallel, "parallel", 0, "Evaluation goroutines override")

	// Output options
	optimizeCmd.Flags().StringVarP(&optWorkbook, "workbook", "o", "", "Write the result workbook (xlsx)")
	optimizeCmd.Flags().StringVar(&optEnvelopePlot, "envelope-plot", "", "Export the column P-M envelope plot (png, svg, pdf)")
	optimizeCmd.Flags().StringVar(&optConvergencePlot, "convergence-plot", "", "Export the convergence plot (png, svg, pdf)")
	optimizeCmd.Flags().BoolVar(&optNoChart, "no-chart", false, "Skip the terminal convergence chart")
	optimizeCmd.Flags().BoolVarP(&optQuiet, "quiet", "q", false, "Suppress per-generation progress")
}

func runOptimize(cmd *cobra.Command, args []string) {
	if optInitConfig {
		path := optConfigFile
		if path == "" {
			path = "gorcf.yaml"
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Default configuration written to: %s\n", path)
		return
	}

	cfg := config.Default()
	if optConfigFile != "" {
		var err error
		cfg, err = config.Load(optConfigFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	// Command-line overrides win over the file.
	if cmd.Flags().Changed("population") {
		cfg.GA.PopulationSize = optPopulation
	}
	if cmd.Flags().Changed("generations") {
		cfg.GA.Generations = optGenerations
	}
	if cmd.Flags().Changed("seed") {
		cfg.GA.Seed = optSeed
	}
	if cmd.Flags().Changed("parallel") {
		cfg.GA.Parallelism = optParallel
	}
	if cmd.Flags().Changed("workbook") {
		cfg.Output.Workbook = optWorkbook
	}
	if cmd.Flags().Changed("envelope-plot") {
		cfg.Output.EnvelopePlot = optEnvelopePlot
	}
	if cmd.Flags().Changed("convergence-plot") {
		cfg.Output.ConvergencePlot = optConvergencePlot
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	top, err := frame.NewTopology(cfg.Grid())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	cat, err := cfg.BuildCatalog()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	verifier := verify.New(cfg.VerifyParams())

	opts := []optimize.Option{
		optimize.WithParallelism(cfg.GA.Parallelism),
	}
	if !optQuiet {
		opts = append(opts, optimize.WithProgress(func(s optimize.Snapshot) {
			if s.Generation == 1 || s.Generation%10 == 0 {
				fmt.Printf("  gen %4d   best %-14s feasible %3.0f%%   mutation %.2f\n",
					s.Generation, fmtCost(s.BestCost), s.FeasibleFrac*100, s.MutationRate)
			}
		}))
	}

	opt, err := optimize.New(optimize.Problem{
		Catalog:  cat,
		Topology: top,
		Material: cfg.Material(),
		Verifier: verifier,
	}, cfg.GAConfig(), opts...)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	grid := cfg.Grid()
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     FRAME SECTION OPTIMIZATION - GB 50010-2010")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Spans:\t%s m\n", joinFloats(grid.SpansM))
	fmt.Fprintf(w, "  Story Heights:\t%s m\n", joinFloats(grid.StoryHeightsM))
	fmt.Fprintf(w, "  Dead Load:\t%.2f kN/m\n", grid.DeadLoadKNM)
	fmt.Fprintf(w, "  Live Load:\t%.2f kN/m\n", grid.LiveLoadKNM)
	if grid.SnowLoadKNM2 > 0 {
		fmt.Fprintf(w, "  Snow Load:\t%.2f kN/m²\n", grid.SnowLoadKNM2)
	}
	if grid.Wind != nil {
		fmt.Fprintf(w, "  Wind Pressure (w0):\t%.2f kN/m²\n", grid.Wind.W0)
	}
	fmt.Fprintf(w, "  Members:\t%d (%d beams, %d columns)\n",
		top.MemberCount(), top.BeamCount(), top.MemberCount()-top.BeamCount())
	fmt.Fprintf(w, "  Catalog:\t%d sections\n", cat.Len())
	fmt.Fprintf(w, "  Population:\t%d\n", cfg.GA.PopulationSize)
	fmt.Fprintf(w, "  Generations:\t%d\n", cfg.GA.Generations)
	w.Flush()
	fmt.Println()

	fmt.Println("SEARCH:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	res := opt.Run()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	converged := "no"
	if res.Converged {
		converged = fmt.Sprintf("yes, at generation %d", res.Generations)
	}
	fmt.Fprintf(w, "  Seed:\t%d\n", res.Seed)
	fmt.Fprintf(w, "  Generations Run:\t%d\n", res.Generations)
	fmt.Fprintf(w, "  Converged Early:\t%s\n", converged)
	fmt.Fprintf(w, "  Elapsed:\t%s\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Final Penalty Coeff:\t%.2f\n", res.State.PenaltyCoeff)
	fmt.Fprintf(w, "  Final Mutation Rate:\t%.2f\n", res.State.MutationRate)
	w.Flush()
	fmt.Println()

	printAssignment(res)
	printVerification(res)

	if !optNoChart && len(res.CostHistory) > 1 {
		fmt.Println(diagram.ConvergenceChart(res.CostHistory, 64, 12))
		fmt.Println()
	}

	lines := []string{
		fmt.Sprintf("Best cost: %s", fmtCost(res.BestCost)),
		fmt.Sprintf("Feasible:  %v", res.Feasible),
		fmt.Sprintf("Run:       %s", res.RunID),
	}
	if res.Feasible {
		fmt.Println(diagram.SummaryBox("OPTIMAL DESIGN", lines))
	} else {
		fmt.Println(diagram.SummaryBox("NO FEASIBLE DESIGN FOUND", lines))
	}
	fmt.Println()

	writeOutputs(cfg, res, verifier)
}

// printAssignment lists the winning section per gene group with its rate.
func printAssignment(res *optimize.Result) {
	fmt.Println("BEST ASSIGNMENT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Group\tSection\tArea\tCost/m\n")
	fmt.Fprintf(w, "  ─────\t───────\t────\t──────\n")
	for _, g := range frame.Groups() {
		sec := res.Assignment.SectionFor(g)
		fmt.Fprintf(w, "  %s\t%s\t%.0f mm²\t¥%.2f\n", g, sec.Name(), sec.AreaMM2, sec.CostPerMeter)
	}
	w.Flush()
	fmt.Println()
}

func printVerification(res *optimize.Result) {
	fmt.Println("VERIFICATION:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	if res.Report == nil {
		fmt.Println("  Analysis of the best individual failed; no checks to show.")
		fmt.Println()
		return
	}

	fails := res.Report.Failures()
	if len(fails) == 0 {
		fmt.Printf("  All %d checks passed ✓\n", len(res.Report.Records))
		if rec, ok := governingRecord(res.Report); ok {
			fmt.Printf("  Governing: %s %s %s\n",
				rec.Check, rec.Member, diagram.UtilizationBar(rec.Ratio, 20))
		}
		fmt.Println()
		return
	}

	fmt.Printf("  %d of %d checks failed ✗\n\n", len(fails), len(res.Report.Records))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Check\tMember\tStory\tRatio\tViolation\n")
	fmt.Fprintf(w, "  ─────\t──────\t─────\t─────\t─────────\n")
	shown := fails
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, rec := range shown {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\t%.3f\n",
			rec.Check, rec.Member, rec.Story, fmtRatio(rec.Ratio), rec.Violation)
	}
	w.Flush()
	if len(fails) > len(shown) {
		fmt.Printf("  … and %d more\n", len(fails)-len(shown))
	}
	fmt.Println()
}

// governingRecord returns the finite record with the highest utilization.
func governingRecord(rep *verify.Report) (verify.Record, bool) {
	var best verify.Record
	found := false
	for _, rec := range rep.Records {
		if math.IsInf(rec.Ratio, 0) || math.IsNaN(rec.Ratio) {
			continue
		}
		if !found || rec.Ratio > best.Ratio {
			best = rec
			found = true
		}
	}
	return best, found
}

func writeOutputs(cfg config.Run, res *optimize.Result, verifier *verify.Verifier) {
	if path := cfg.Output.Workbook; path != "" {
		if err := report.Write(path, res); err != nil {
			fmt.Printf("Error writing workbook: %v\n", err)
		} else {
			fmt.Printf("Workbook saved to: %s\n", path)
		}
	}

	if path := cfg.Output.EnvelopePlot; path != "" && res.Demands != nil {
		sec := res.Assignment.SectionFor(frame.BottomColumn)
		env := verifier.Cache().GetOrCompute(sec)
		var pts []diagram.DemandPoint
		for i := range res.Demands.Members {
			d := &res.Demands.Members[i]
			if d.Info.Kind == frame.Column && d.Info.Group == frame.BottomColumn {
				pts = append(pts, diagram.DemandPoint{P: -d.AxialMin, M: d.MomentMax})
			}
		}
		if err := diagram.SaveEnvelopePlot(env, pts, path); err != nil {
			fmt.Printf("Error exporting envelope plot: %v\n", err)
		} else {
			fmt.Printf("Envelope plot saved to: %s\n", path)
		}
	}

	if path := cfg.Output.ConvergencePlot; path != "" {
		if err := diagram.SaveConvergencePlot(res.CostHistory, path); err != nil {
			fmt.Printf("Error exporting convergence plot: %v\n", err)
		} else {
			fmt.Printf("Convergence plot saved to: %s\n", path)
		}
	}
}

func fmtCost(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("¥%.2f", v)
}

func fmtRatio(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
