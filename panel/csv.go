package panel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// LoadCSV reads a panel from a csv file with the source dataset header.
func LoadCSV(path string) (*Panel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

// RequiredColumns must all be present in a panel csv header.
var RequiredColumns = append([]string{ColDate, ColRegion, ColTarget}, Covariates...)

// ReadCSV reads a panel from csv content. Columns not used by the panel are ignored but
// every required column must be in the header.
func ReadCSV(r io.Reader) (*Panel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read panel csv, %w", err)
	}
	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read panel csv header, %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("unable to decode panel rows, %w", err)
	}
	return New(rows)
}

func checkHeader(header []string) error {
	present := make(map[string]struct{}, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\uFEFF")
		}
		present[strings.TrimSpace(col)] = struct{}{}
	}
	for _, col := range RequiredColumns {
		if _, exists := present[col]; !exists {
			return fmt.Errorf("panel csv missing column %q, %w", col, ErrUnknownColumn)
		}
	}
	return nil
}

// WriteCSV writes rows with the source dataset header.
func WriteCSV(w io.Writer, rows []Row) error {
	return gocsv.Marshal(&rows, w)
}
