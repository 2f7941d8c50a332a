package trace

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	stepsSheet   = "steps"
)

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// XLSX renders the run as a workbook: a summary sheet with one row per
// channel, and a steps sheet with one row per step and one column per
// channel.
func (r *Recorder) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(stepsSheet); err != nil {
		return nil, err
	}

	sum := r.Summary()
	_ = f.SetCellValue(summarySheet, "A1", "Simulation trace")
	_ = f.SetCellValue(summarySheet, "A3", "Steps")
	_ = f.SetCellValue(summarySheet, "B3", sum.Steps)
	_ = f.SetCellValue(summarySheet, "A4", "Mean energized nets")
	_ = f.SetCellValue(summarySheet, "B4", sum.MeanEnergized)
	_ = f.SetCellValue(summarySheet, "A5", "Max energized nets")
	_ = f.SetCellValue(summarySheet, "B5", sum.MaxEnergized)

	_ = f.SetCellValue(summarySheet, "A7", "Channel")
	_ = f.SetCellValue(summarySheet, "B7", "Duty")
	_ = f.SetCellValue(summarySheet, "C7", "Transitions")
	for i, cs := range sum.Channels {
		row := i + 8
		_ = f.SetCellValue(summarySheet, cell(1, row), cs.Channel.String())
		_ = f.SetCellValue(summarySheet, cell(2, row), cs.Duty)
		_ = f.SetCellValue(summarySheet, cell(3, row), cs.Transitions)
	}

	channels := r.Channels()
	_ = f.SetCellValue(stepsSheet, "A1", "Step")
	_ = f.SetCellValue(stepsSheet, "B1", "Energized nets")
	for j, ch := range channels {
		_ = f.SetCellValue(stepsSheet, cell(j+3, 1), ch.String())
	}
	for i, s := range r.steps {
		row := i + 2
		energized := 0
		for _, on := range s.Energized {
			if on {
				energized++
			}
		}
		_ = f.SetCellValue(stepsSheet, cell(1, row), s.Step)
		_ = f.SetCellValue(stepsSheet, cell(2, row), energized)
		for j, ch := range channels {
			v := 0
			if ch.value(s) {
				v = 1
			}
			_ = f.SetCellValue(stepsSheet, cell(j+3, row), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
