package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"urgentcast/internal/feature"
	"urgentcast/internal/models"
)

// Required columns of the two input tables.
const (
	ColShiftDate       = "SHIFT_DATE"
	ColEarningCategory = "EARNING_CATEGORY"
	ColJobFamily       = "JOB_FAMILY"
	ColJobFamilyDesc   = "JOB_FAMILY_DESCRIPTION"
)

// MissingColumnError reports a required column absent from an input table.
type MissingColumnError struct {
	Column string
	Table  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s is missing required column %s", e.Table, e.Column)
}

// RowError wraps a bad value with the row it occurred on.
type RowError struct {
	Table string
	Line  int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("table %s line %d: %v", e.Table, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadExceptions loads the exception table from CSV. The header row decides
// column positions; SHIFT_DATE, EARNING_CATEGORY and JOB_FAMILY must be
// present and every shift date must parse.
func ReadExceptions(r io.Reader) ([]models.ExceptionRecord, error) {
	headers, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(headers, "exceptions", ColShiftDate, ColEarningCategory, ColJobFamily)
	if err != nil {
		return nil, err
	}

	out := make([]models.ExceptionRecord, 0, len(rows))
	for i, row := range rows {
		rec := models.ExceptionRecord{
			ShiftDate:       field(row, cols[ColShiftDate]),
			EarningCategory: field(row, cols[ColEarningCategory]),
			JobFamily:       field(row, cols[ColJobFamily]),
		}
		if _, err := feature.ParseShiftDate(rec.ShiftDate); err != nil {
			return nil, &RowError{Table: "exceptions", Line: i + 2, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadProductiveHours loads a productive-hours table from CSV. Beyond
// SHIFT_DATE and JOB_FAMILY_DESCRIPTION it needs at least one numeric column;
// numeric columns are summed into the record's hours value, matching the
// source tables where hours may be split across columns.
func ReadProductiveHours(r io.Reader, table string) ([]models.ProductiveHoursRecord, error) {
	headers, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cols, err := columnIndex(headers, table, ColShiftDate, ColJobFamilyDesc)
	if err != nil {
		return nil, err
	}

	named := map[int]bool{
		cols[ColShiftDate]:     true,
		cols[ColJobFamilyDesc]: true,
	}
	numeric := numericColumns(headers, rows, named)
	if len(numeric) == 0 {
		return nil, &MissingColumnError{Column: "a numeric hours column", Table: table}
	}

	out := make([]models.ProductiveHoursRecord, 0, len(rows))
	for i, row := range rows {
		rec := models.ProductiveHoursRecord{
			ShiftDate:            field(row, cols[ColShiftDate]),
			JobFamilyDescription: field(row, cols[ColJobFamilyDesc]),
		}
		if _, err := feature.ParseShiftDate(rec.ShiftDate); err != nil {
			return nil, &RowError{Table: table, Line: i + 2, Err: err}
		}
		for _, c := range numeric {
			v := field(row, c)
			if v == "" {
				continue
			}
			h, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &RowError{Table: table, Line: i + 2, Err: fmt.Errorf("bad hours value %q", v)}
			}
			rec.Hours += h
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadExceptionsFile is ReadExceptions over a file path.
func ReadExceptionsFile(path string) ([]models.ExceptionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadExceptions(f)
}

// ReadProductiveHoursFile is ReadProductiveHours over a file path.
func ReadProductiveHoursFile(path, table string) ([]models.ProductiveHoursRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProductiveHours(f, table)
}

// WritePredictions writes forecast rows as ds,yhat,job_family CSV.
func WritePredictions(w io.Writer, preds []models.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ds", "yhat", "job_family"}); err != nil {
		return err
	}
	for _, p := range preds {
		row := []string{p.DS, strconv.FormatFloat(p.YHat, 'f', -1, 64), p.JobFamily}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}

func columnIndex(headers []string, table string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, &MissingColumnError{Column: col, Table: table}
		}
	}
	return idx, nil
}

// numericColumns finds columns, other than the named ones, whose sampled
// values all parse as numbers.
func numericColumns(headers []string, rows [][]string, named map[int]bool) []int {
	var numeric []int
	for c := range headers {
		if named[c] {
			continue
		}
		sample := 20
		if len(rows) < sample {
			sample = len(rows)
		}
		isNumeric := sample > 0
		seen := false
		for r := 0; r < sample; r++ {
			v := field(rows[r], c)
			if v == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isNumeric = false
				break
			}
		}
		if isNumeric && seen {
			numeric = append(numeric, c)
		}
	}
	return numeric
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
