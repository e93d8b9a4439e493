package residuals

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hplusminus/domain/core"
	"hplusminus/internal"
	"hplusminus/internal/errors"
	"hplusminus/ports"

	"github.com/xuri/excelize/v2"
)

// FileType is the residual file encoding, chosen by extension
type FileType string

const (
	FileTypeText FileType = "txt"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType maps .csv and .xlsx/.xlsm to their readers; anything else
// is read as whitespace-delimited text.
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FileTypeCSV
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	}
	return FileTypeText
}

// DataReader reads one column of normalized residuals from text, CSV or Excel files
type DataReader struct {
	logger *internal.Logger
}

var _ ports.ResidualSource = (*DataReader)(nil)

// NewDataReader creates a reader logging through the default logger
func NewDataReader() *DataReader {
	return &DataReader{logger: internal.DefaultLogger}
}

// WithLogger replaces the reader logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger
	return r
}

// ReadColumn reads the 1-based column of path. Text files with a single
// column ignore the column number. A leading non-numeric row of a CSV or
// Excel file is taken as a header and skipped.
func (r *DataReader) ReadColumn(ctx context.Context, path string, column int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if column < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("column %d: columns are numbered from 1", column))
	}

	startTime := time.Now()
	fileType := DetectFileType(path)

	var rows [][]string
	var err error
	switch fileType {
	case FileTypeCSV:
		rows, err = readCSVRows(path)
	case FileTypeXLSX:
		rows, err = readExcelRows(path)
	default:
		rows, err = readTextRows(path)
	}
	if err != nil {
		return nil, err
	}

	values, err := extractColumn(rows, column, fileType != FileTypeText)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading column %d of file %q", column, path)
	}

	r.logger.Info("read %d residuals from column %d of %s file %s in %.2fms",
		len(values), column, fileType, path, float64(time.Since(startTime).Microseconds())/1e3)
	return values, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	return f, nil
}

// readTextRows splits lines on whitespace; '#' starts a comment.
func readTextRows(path string) ([][]string, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTextRows(f, path)
}

func parseTextRows(rd io.Reader, path string) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IOError(path, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of a workbook
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("workbook %s has no sheets", path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.IOError(path, err)
	}

	out := rows[:0]
	for _, row := range rows {
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func extractColumn(rows [][]string, column int, allowHeader bool) ([]float64, error) {
	singleColumn := !allowHeader && len(rows) > 0
	for _, row := range rows {
		if len(row) != 1 {
			singleColumn = false
			break
		}
	}
	idx := column - 1
	if singleColumn {
		idx = 0
	}

	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns: %w", i+1, len(row), core.ErrInvalidInput)
		}
		cell := strings.TrimSpace(row[idx])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			if i == 0 && allowHeader {
				continue
			}
			return nil, fmt.Errorf("row %d: %q is not a number: %w", i+1, cell, core.ErrInvalidInput)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no data rows: %w", core.ErrEmptySequence)
	}
	return values, nil
}
