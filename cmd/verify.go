package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/config"
	"github.com/alexiusacademia/gorcf/internal/diagram"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/verify"
	"github.com/spf13/cobra"
)

var (
	verifyConfigFile string
	verifySections   string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a given section assignment against GB 50010-2010",
	Long: `Analyze the frame with a fixed section assignment and run every
strength, serviceability and topology check, without optimizing.

Sections are given per gene group, comma separated, in the order
standard-beam, roof-beam, bottom-column, corner-column,
interior-column, top-column, each as WIDTHxHEIGHT in mm.

Examples:
  # Check a candidate design against the default frame
  gorcf verify --sections "300x600,300x550,450x500,400x450,450x500,400x400"

  # Against a configured frame
  gorcf verify --config frame.yaml --sections "300x600,300x600,500x500,450x450,500x500,400x400"`,
	Run: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyConfigFile, "config", "f", "", "Path to the run configuration (YAML)")
	verifyCmd.Flags().StringVarP(&verifySections, "sections", "s", "", "Comma-separated WxH per gene group (mm) [required]")
	verifyCmd.MarkFlagRequired("sections")
}

func runVerify(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	if verifyConfigFile != "" {
		var err error
		cfg, err = config.Load(verifyConfigFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	asn, err := parseSections(verifySections)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	top, err := frame.NewTopology(cfg.Grid())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	demands, err := frame.Analyze(top, asn, cfg.Material(), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	rep := verify.New(cfg.VerifyParams()).Verify(top, asn, demands)

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     FRAME VERIFICATION - GB 50010-2010")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("ASSIGNMENT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, g := range frame.Groups() {
		sec := asn.SectionFor(g)
		fmt.Fprintf(w, "  %s:\t%s\t(¥%.2f/m)\n", g, sec.Name(), sec.CostPerMeter)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("MEMBER UTILIZATION:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Member\tGoverning\tUtilization\n")
	fmt.Fprintf(w, "  ──────\t─────────\t───────────\n")
	byMember := worstPerMember(rep)
	for i := range demands.Members {
		label := demands.Members[i].Info.Label()
		rec, ok := byMember[label]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", label, rec.Check, diagram.UtilizationBar(rec.Ratio, 20))
	}
	w.Flush()
	fmt.Println()

	printStoryChecks(rep)

	fails := rep.Failures()
	if len(fails) == 0 {
		fmt.Println(diagram.SummaryBox("DESIGN OK", []string{
			fmt.Sprintf("All %d checks passed", len(rep.Records)),
			fmt.Sprintf("Governing ratio: %.2f", worstRatio(rep)),
		}))
	} else {
		fmt.Println(diagram.SummaryBox("DESIGN NOT ADEQUATE", []string{
			fmt.Sprintf("%d of %d checks failed", len(fails), len(rep.Records)),
			fmt.Sprintf("Violation sum: %.3f", rep.ViolationSum),
			fmt.Sprintf("Worst: %s %s", rep.Worst().Check, rep.Worst().Member),
		}))
	}
	fmt.Println()
}

// worstPerMember keeps each member's highest-utilization record.
func worstPerMember(rep *verify.Report) map[string]verify.Record {
	out := make(map[string]verify.Record)
	for _, rec := range rep.Records {
		if rec.Member == "" {
			continue
		}
		if prev, ok := out[rec.Member]; !ok || rec.Ratio > prev.Ratio {
			out[rec.Member] = rec
		}
	}
	return out
}

func worstRatio(rep *verify.Report) float64 {
	var worst float64
	for _, rec := range rep.Records {
		if rec.Ratio > worst {
			worst = rec.Ratio
		}
	}
	return worst
}

func printStoryChecks(rep *verify.Report) {
	var story []verify.Record
	for _, rec := range rep.Records {
		if rec.Member == "" {
			story = append(story, rec)
		}
	}
	if len(story) == 0 {
		return
	}

	fmt.Println("STORY CHECKS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Check\tStory\tRatio\tStatus\n")
	fmt.Fprintf(w, "  ─────\t─────\t─────\t──────\n")
	for _, rec := range story {
		status := "OK"
		if rec.Violation > 0 {
			status = "NG"
		}
		fmt.Fprintf(w, "  %s\t%d\t%.3f\t%s\n", rec.Check, rec.Story, rec.Ratio, status)
	}
	w.Flush()
	fmt.Println()
}

// parseSections reads the per-group "WxH" list in genotype order.
func parseSections(s string) (frame.Assignment, error) {
	var asn frame.Assignment
	parts := strings.Split(s, ",")
	if len(parts) != frame.GroupCount {
		return asn, fmt.Errorf("need %d sections (one per group), got %d", frame.GroupCount, len(parts))
	}
	for i, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		part = strings.ReplaceAll(part, "×", "x")
		dims := strings.Split(part, "x")
		if len(dims) != 2 {
			return asn, fmt.Errorf("section %q: want WIDTHxHEIGHT in mm", part)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(dims[0]), 64)
		if err != nil {
			return asn, fmt.Errorf("section %q: bad width: %v", part, err)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(dims[1]), 64)
		if err != nil {
			return asn, fmt.Errorf("section %q: bad height: %v", part, err)
		}
		sec, err := catalog.NewSection(b, h)
		if err != nil {
			return asn, err
		}
		asn[i] = sec
	}
	return asn, nil
}
