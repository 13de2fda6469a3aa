package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-chat/internal/models"
)

func TestSample_Shape(t *testing.T) {
	ds := Sample()

	assert.Equal(t, 20, ds.Len())
	assert.Equal(t, []string{"North", "South", "East", "West"}, ds.Regions())
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May"}, ds.Periods())

	for _, region := range ds.Regions() {
		assert.Len(t, ds.ByRegion(region), 5, region)
	}
	for _, period := range ds.Periods() {
		assert.Len(t, ds.ByPeriod(period), 4, period)
	}
}

func TestSample_Lookup(t *testing.T) {
	ds := Sample()

	rec, ok := ds.Lookup("North", "Jan")
	require.True(t, ok)
	assert.Equal(t, 45000.0, rec.Revenue)
	assert.Equal(t, 120, rec.Customers)

	rec, ok = ds.Lookup("West", "May")
	require.True(t, ok)
	assert.Equal(t, 47000.0, rec.Revenue)

	_, ok = ds.Lookup("Central", "Jan")
	assert.False(t, ok)
}

func TestDataset_Immutable(t *testing.T) {
	input := []models.DataRecord{
		{Period: "Jan", Revenue: 10, Customers: 1, Region: "North"},
	}
	ds := New(input)

	input[0].Revenue = 999
	assert.Equal(t, 10.0, ds.Records()[0].Revenue, "New must copy its input")

	out := ds.Records()
	out[0].Revenue = 555
	assert.Equal(t, 10.0, ds.Records()[0].Revenue, "Records must return a copy")

	regions := ds.Regions()
	regions[0] = "Mutated"
	assert.Equal(t, []string{"North"}, ds.Regions())
}

func TestDataset_FirstAppearanceOrder(t *testing.T) {
	ds := New([]models.DataRecord{
		{Period: "Q2", Region: "West"},
		{Period: "Q1", Region: "East"},
		{Period: "Q2", Region: "East"},
		{Period: "Q1", Region: "West", Revenue: 7},
		{Period: "Q1", Region: "West", Revenue: 8},
	})

	assert.Equal(t, []string{"West", "East"}, ds.Regions())
	assert.Equal(t, []string{"Q2", "Q1"}, ds.Periods())

	rec, ok := ds.Lookup("West", "Q1")
	require.True(t, ok)
	assert.Equal(t, 7.0, rec.Revenue, "duplicate cells resolve to the first record")
}

func TestDataset_Empty(t *testing.T) {
	ds := New(nil)

	assert.Zero(t, ds.Len())
	assert.Empty(t, ds.Regions())
	assert.Empty(t, ds.Periods())
	assert.Empty(t, ds.ByRegion("North"))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV_RoundTripsSample(t *testing.T) {
	var b strings.Builder
	b.WriteString("period,revenue,customers,region\n")
	for _, rec := range Sample().Records() {
		b.WriteString(rec.Period + "," + strconv.FormatFloat(rec.Revenue, 'f', -1, 64) + "," + strconv.Itoa(rec.Customers) + "," + rec.Region + "\n")
	}

	ds, err := LoadCSV(context.Background(), writeCSV(t, b.String()))
	require.NoError(t, err)

	assert.Equal(t, Sample().Records(), ds.Records())
	assert.Equal(t, Sample().Regions(), ds.Regions())
	assert.Equal(t, Sample().Periods(), ds.Periods())
}

func TestLoadCSV_ColumnOrderAndExtras(t *testing.T) {
	csv := "Region, Notes, Customers, Period, Revenue\n" +
		"North,first,120,Jan,45000\n" +
		"South,\"quoted, note\",100,Jan,38000.5\n"

	ds, err := LoadCSV(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)

	records := ds.Records()
	require.Len(t, records, 2)
	assert.Equal(t, models.DataRecord{Period: "Jan", Revenue: 45000, Customers: 120, Region: "North"}, records[0])
	assert.Equal(t, 38000.5, records[1].Revenue)
}

func TestLoadCSV_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{name: "empty file", csv: "", wantErr: "empty file"},
		{name: "header only", csv: "period,revenue,customers,region\n", wantErr: "no records"},
		{name: "missing column", csv: "period,revenue,region\nJan,1,North\n", wantErr: "missing columns: customers"},
		{name: "bad revenue", csv: "period,revenue,customers,region\nJan,abc,1,North\n", wantErr: "line 2"},
		{name: "negative revenue", csv: "period,revenue,customers,region\nJan,-5,1,North\n", wantErr: "non-negative"},
		{name: "bad customers", csv: "period,revenue,customers,region\nJan,1,1.5,North\nFeb,1,x,North\n", wantErr: "parse customers"},
		{name: "negative customers", csv: "period,revenue,customers,region\nJan,1,-1,North\n", wantErr: "non-negative"},
		{name: "empty region", csv: "period,revenue,customers,region\nJan,1,1,\n", wantErr: "region is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(context.Background(), writeCSV(t, tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadCSV_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, strings.NewReader("period,revenue,customers,region\nJan,1,1,North\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkDataset_New(b *testing.B) {
	records := Sample().Records()
	for b.Loop() {
		_ = New(records)
	}
}
