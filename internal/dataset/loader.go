package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"insights-chat/internal/models"
)

const maxWorkers = 10

var requiredColumns = []string{"period", "revenue", "customers", "region"}

// LoadCSV reads a dataset from a CSV file whose header names the columns
// period, revenue, customers and region (any order, extra columns ignored).
func LoadCSV(ctx context.Context, filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	ds, err := ReadCSV(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	slog.Default().Info("dataset loaded",
		"filename", filename,
		"records", ds.Len(),
		"regions", len(ds.regions),
		"periods", len(ds.periods),
		"duration", time.Since(start),
	)
	return ds, nil
}

// ReadCSV parses rows concurrently and keeps them in file order. Any
// malformed row fails the whole load.
func ReadCSV(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no records found")
	}

	records := make([]models.DataRecord, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, line := range lines {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := parseRecord(line, columns)
			if err != nil {
				// header is line 1
				return fmt.Errorf("line %d: %w", i+2, err)
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(records), nil
}

type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	columns := make(columnIndex, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRecord(line []string, columns columnIndex) (models.DataRecord, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(line) {
			return ""
		}
		return strings.TrimSpace(line[idx])
	}

	period := field("period")
	if period == "" {
		return models.DataRecord{}, fmt.Errorf("period is empty")
	}

	region := field("region")
	if region == "" {
		return models.DataRecord{}, fmt.Errorf("region is empty")
	}

	revenue, err := strconv.ParseFloat(field("revenue"), 64)
	if err != nil {
		return models.DataRecord{}, fmt.Errorf("parse revenue: %w", err)
	}
	if revenue < 0 || math.IsNaN(revenue) || math.IsInf(revenue, 0) {
		return models.DataRecord{}, fmt.Errorf("revenue must be a non-negative number, got %q", field("revenue"))
	}

	customers, err := strconv.Atoi(field("customers"))
	if err != nil {
		return models.DataRecord{}, fmt.Errorf("parse customers: %w", err)
	}
	if customers < 0 {
		return models.DataRecord{}, fmt.Errorf("customers must be non-negative, got %d", customers)
	}

	return models.DataRecord{
		Period:    period,
		Revenue:   revenue,
		Customers: customers,
		Region:    region,
	}, nil
}
