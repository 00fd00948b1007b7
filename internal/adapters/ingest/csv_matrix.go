package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// readRateMatrix parses a freight rate table from CSV. The header row names
// the destination ids, the first column of every data row names the origin.
// An empty cell means the lane is undefined, which downstream treats as
// unusable rather than free.
//
//	origin,Alpha_Mill,Beta_Works
//	Alpha_Mill,,20
//	Beta_Works,20,
func readRateMatrix(path string) (map[string]map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate matrix: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // ragged rows reported with origin context below
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse rate matrix %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("rate matrix %s needs a header and at least one row", path)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("rate matrix %s has no destination columns", path)
	}
	destinations := header[1:]

	matrix := make(map[string]map[string]float64, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("rate matrix %s row %d has %d cells, want %d", path, i+2, len(row), len(header))
		}
		origin := strings.TrimSpace(row[0])
		if origin == "" {
			return nil, fmt.Errorf("rate matrix %s row %d has an empty origin", path, i+2)
		}
		if _, dup := matrix[origin]; dup {
			return nil, fmt.Errorf("rate matrix %s repeats origin %s", path, origin)
		}

		lanes := make(map[string]float64, len(destinations))
		for j, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue // lane undefined
			}
			rate, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("rate matrix %s cell %s->%s: %w", path, origin, destinations[j], err)
			}
			if rate < 0 {
				return nil, fmt.Errorf("rate matrix %s cell %s->%s is negative", path, origin, destinations[j])
			}
			lanes[strings.TrimSpace(destinations[j])] = rate
		}
		matrix[origin] = lanes
	}
	return matrix, nil
}
