// Package report renders a distribution run's result envelope as an XLSX
// workbook: one sheet with the assignment ledger, one with per-doctor load.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rengenols/dispatch/dispatch"
)

const (
	sheetAssignments = "Assignments"
	sheetDoctors     = "Doctors"
	timeLayout       = "2006-01-02 15:04"
)

// Write renders the envelope into w.
func Write(env *dispatch.ResultEnvelope, w io.Writer) error {
	f, err := build(env)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteFile renders the envelope into an .xlsx file at path.
func WriteFile(env *dispatch.ResultEnvelope, path string) error {
	f, err := build(env)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func build(env *dispatch.ResultEnvelope) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeAssignments(f, env); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDoctors(f, env); err != nil {
		f.Close()
		return nil, err
	}
	// The default sheet excelize creates is replaced by Assignments.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeAssignments(f *excelize.File, env *dispatch.ResultEnvelope) error {
	if _, err := f.NewSheet(sheetAssignments); err != nil {
		return err
	}
	header := []interface{}{
		"Study", "Number", "Doctor", "Priority", "UP",
		"Deadline", "Completion", "Tardiness (h)", "Weighted tardiness",
	}
	if err := setRow(f, sheetAssignments, 1, header); err != nil {
		return err
	}
	for i, a := range env.Assignments {
		row := []interface{}{
			a.StudyID, a.StudyNumber, a.DoctorName, string(a.Priority), a.UPValue,
			formatTime(a.Deadline), formatTime(a.CompletionTime),
			a.TardinessHours, a.WeightedTardiness,
		}
		if err := setRow(f, sheetAssignments, i+2, row); err != nil {
			return err
		}
	}

	// Summary block under the ledger.
	base := len(env.Assignments) + 3
	summary := [][]interface{}{
		{"Assigned", env.Assigned},
		{"Unassigned", env.Unassigned},
		{"Total tardiness (h)", env.TotalTardiness},
		{"Total weighted tardiness (Z)", env.TotalWeightedTardiness},
		{"Average tardiness (h)", env.AvgTardiness},
	}
	for i, row := range summary {
		if err := setRow(f, sheetAssignments, base+i, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDoctors(f *excelize.File, env *dispatch.ResultEnvelope) error {
	if _, err := f.NewSheet(sheetDoctors); err != nil {
		return err
	}
	header := []interface{}{"Doctor", "Assigned", "Total UP", "Max UP", "Load %", "Remaining UP"}
	if err := setRow(f, sheetDoctors, 1, header); err != nil {
		return err
	}
	for i, d := range env.DoctorStats {
		row := []interface{}{
			d.DoctorName, d.Assigned, d.TotalUP, d.MaxUP, d.LoadPercent, d.RemainingUP,
		}
		if err := setRow(f, sheetDoctors, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
