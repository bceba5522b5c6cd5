package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Benjamin-Elon/trellis/core/planner"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"succession", "sow_date", "germination_date", "transplant_date",
	"harvest_start", "harvest_end", "truncated", "yield_multiplier", "plants_required",
}

// WriteJSON writes the schedule to w in JSON format.
func WriteJSON(w io.Writer, s planner.Schedule) error {
	enc := json.NewEncoder(w)
	return enc.Encode(s)
}

// WriteCSV writes one CSV record per succession row.
func WriteCSV(w io.Writer, s planner.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range s.Rows {
		rec := []string{
			strconv.Itoa(r.Index),
			r.SowDate.Format(dateLayout),
			optDate(r.GerminationDate),
			optDate(r.TransplantDate),
			r.HarvestStart.Format(dateLayout),
			r.HarvestEnd.Format(dateLayout),
			strconv.FormatBool(r.Truncated),
			strconv.FormatFloat(r.YieldMultiplier, 'f', -1, 64),
			strconv.Itoa(r.PlantsRequired),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the schedule as a spreadsheet: a metadata block followed
// by one row per succession.
func WriteXLSX(w io.Writer, s planner.Schedule) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Schedule"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	meta := [][]interface{}{
		{"Plant", s.Plant},
		{"City", s.City},
		{"Method", string(s.Method)},
		{"Year", s.Year},
		{"Plan ID", s.PlanID},
	}
	if s.PlantsTotal > 0 {
		meta = append(meta,
			[]interface{}{"Plants total", s.PlantsTotal},
			[]interface{}{"Realized kg", s.RealizedKg},
		)
	}
	for i, kv := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &kv); err != nil {
			return err
		}
	}

	start := len(meta) + 2
	header := []interface{}{
		"Succession", "Sow", "Germination", "Transplant",
		"Harvest start", "Harvest end", "Truncated", "Multiplier", "Plants",
	}
	cell, err := excelize.CoordinatesToCellName(1, start)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return err
	}
	for i, r := range s.Rows {
		row := []interface{}{
			r.Index,
			r.SowDate.Format(dateLayout),
			optDate(r.GerminationDate),
			optDate(r.TransplantDate),
			r.HarvestStart.Format(dateLayout),
			r.HarvestEnd.Format(dateLayout),
			r.Truncated,
			r.YieldMultiplier,
			r.PlantsRequired,
		}
		cell, err := excelize.CoordinatesToCellName(1, start+1+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func optDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
