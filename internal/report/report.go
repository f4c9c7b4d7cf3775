// Package report writes the optimization run into an Excel workbook: a
// summary sheet with the winning assignment, plus beam and column sheets
// carrying the governing demands and utilization ratios per member.
package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/optimize"
	"github.com/alexiusacademia/gorcf/internal/verify"
)

// Sheet names in workbook order.
const (
	SheetSummary = "Summary"
	SheetBeams   = "Beams"
	SheetColumns = "Columns"
)

// Build assembles the workbook in memory. The caller owns Close.
func Build(res *optimize.Result) (*excelize.File, error) {
	if res == nil || res.Demands == nil || res.Report == nil {
		return nil, errors.New("result carries no demands to report")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{SheetBeams, SheetColumns} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	records := indexRecords(res.Report)
	if err := writeSummary(f, res); err != nil {
		return nil, err
	}
	if err := writeBeams(f, res, records); err != nil {
		return nil, err
	}
	if err := writeColumns(f, res, records); err != nil {
		return nil, err
	}
	return f, nil
}

// Write builds the workbook and saves it to path.
func Write(path string, res *optimize.Result) error {
	f, err := Build(res)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// memberRecords joins verification records to members by label. Where a
// member carries several records of the same check, the worst ratio wins.
type memberRecords map[string]map[verify.Check]verify.Record

func indexRecords(rep *verify.Report) memberRecords {
	idx := make(memberRecords)
	for _, rec := range rep.Records {
		if rec.Member == "" {
			continue // story-level checks surface on the summary sheet
		}
		byCheck, ok := idx[rec.Member]
		if !ok {
			byCheck = make(map[verify.Check]verify.Record)
			idx[rec.Member] = byCheck
		}
		if prev, ok := byCheck[rec.Check]; !ok || rec.Ratio > prev.Ratio {
			byCheck[rec.Check] = rec
		}
	}
	return idx
}

func writeSummary(f *excelize.File, res *optimize.Result) error {
	rows := [][]interface{}{
		{"Run", res.RunID},
		{"Seed", res.Seed},
		{"Generations", res.Generations},
		{"Converged", res.Converged},
		{"Elapsed", res.Elapsed.Round(time.Millisecond).String()},
		{"Feasible", res.Feasible},
		{"Best cost (¥)", round2(res.BestCost)},
		{"Violation sum", res.Report.ViolationSum},
		{},
		{"Group", "Section", "Width (mm)", "Height (mm)"},
	}
	for _, g := range frame.Groups() {
		sec := res.Assignment.SectionFor(g)
		rows = append(rows, []interface{}{g.String(), sec.Name(), sec.WidthMM, sec.HeightMM})
	}

	if fails := res.Report.Failures(); len(fails) > 0 {
		rows = append(rows,
			[]interface{}{},
			[]interface{}{"Failed check", "Member", "Story", "Ratio", "Violation"})
		for _, rec := range fails {
			rows = append(rows, []interface{}{
				string(rec.Check), rec.Member, rec.Story, ratioCell(rec.Ratio), rec.Violation,
			})
		}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &rows[i]); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "E", 16)
}

var beamHeader = []interface{}{
	"Member", "Story", "Section",
	"Mu (kN·m)", "φMn (kN·m)", "M D/C",
	"Vu (kN)", "φVn (kN)", "V D/C",
	"δ (mm)", "δ limit (mm)",
	"w (mm)", "w limit (mm)",
	"Status",
}

func writeBeams(f *excelize.File, res *optimize.Result, records memberRecords) error {
	if err := f.SetSheetRow(SheetBeams, "A1", &beamHeader); err != nil {
		return err
	}
	row := 2
	for i := range res.Demands.Members {
		d := &res.Demands.Members[i]
		if d.Info.Kind != frame.Beam {
			continue
		}
		label := d.Info.Label()
		sec := res.Assignment.SectionFor(d.Info.Group)
		recs := records[label]
		flex := recs[verify.CheckFlexure]
		shear := recs[verify.CheckShear]
		defl := recs[verify.CheckDeflection]
		crack := recs[verify.CheckCrackWidth]

		line := []interface{}{
			label, d.Info.Story, sec.Name(),
			round2(d.MomentMax), round2(flex.Capacity), ratioCell(flex.Ratio),
			round2(d.ShearMax), round2(shear.Capacity), ratioCell(shear.Ratio),
			round2(defl.Demand), round2(defl.Capacity),
			round3(crack.Demand), crack.Capacity,
			statusCell(recs),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetBeams, cell, &line); err != nil {
			return err
		}
		row++
	}
	return styleHeader(f, SheetBeams, len(beamHeader))
}

var columnHeader = []interface{}{
	"Member", "Story", "Section",
	"N (kN)", "Mu (kN·m)", "Mcap (kN·m)", "P-M D/C",
	"N/(fc·Ag)", "Axial D/C",
	"ρ", "ρ D/C",
	"Status",
}

func writeColumns(f *excelize.File, res *optimize.Result, records memberRecords) error {
	if err := f.SetSheetRow(SheetColumns, "A1", &columnHeader); err != nil {
		return err
	}
	row := 2
	for i := range res.Demands.Members {
		d := &res.Demands.Members[i]
		if d.Info.Kind != frame.Column {
			continue
		}
		label := d.Info.Label()
		sec := res.Assignment.SectionFor(d.Info.Group)
		recs := records[label]
		pm := recs[verify.CheckPMEnvelope]
		axial := recs[verify.CheckAxialRatio]
		steel := recs[verify.CheckSteelRatio]

		line := []interface{}{
			label, d.Info.Story, sec.Name(),
			round2(-d.AxialMin), round2(d.MomentMax), round2(pm.Capacity), ratioCell(pm.Ratio),
			round3(axial.Demand), ratioCell(axial.Ratio),
			round4(steel.Demand), ratioCell(steel.Ratio),
			statusCell(recs),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetColumns, cell, &line); err != nil {
			return err
		}
		row++
	}
	return styleHeader(f, SheetColumns, len(columnHeader))
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", end, 12)
}

func statusCell(recs map[verify.Check]verify.Record) string {
	for _, rec := range recs {
		if rec.Violation > 0 {
			return "NG"
		}
	}
	return "OK"
}

// ratioCell keeps the workbook numeric where it can; a section with no
// positive moment capacity reports an infinite ratio, which xlsx cannot hold.
func ratioCell(r float64) interface{} {
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return "inf"
	}
	return round3(r)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
