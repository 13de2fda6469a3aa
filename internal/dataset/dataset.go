package dataset

import (
	"slices"

	"insights-chat/internal/models"
)

// Dataset is an immutable table of monthly records. Region and period
// indexes are built once in New and only read afterwards, so a Dataset is
// safe for concurrent use.
type Dataset struct {
	records  []models.DataRecord
	regions  []string
	periods  []string
	byRegion map[string][]models.DataRecord
	byPeriod map[string][]models.DataRecord
	byCell   map[cellKey]models.DataRecord
}

type cellKey struct {
	region string
	period string
}

// New copies records and indexes them. Regions and periods keep the order
// in which they first appear.
func New(records []models.DataRecord) *Dataset {
	ds := &Dataset{
		records:  slices.Clone(records),
		byRegion: make(map[string][]models.DataRecord),
		byPeriod: make(map[string][]models.DataRecord),
		byCell:   make(map[cellKey]models.DataRecord, len(records)),
	}

	for _, rec := range ds.records {
		if _, ok := ds.byRegion[rec.Region]; !ok {
			ds.regions = append(ds.regions, rec.Region)
		}
		if _, ok := ds.byPeriod[rec.Period]; !ok {
			ds.periods = append(ds.periods, rec.Period)
		}
		ds.byRegion[rec.Region] = append(ds.byRegion[rec.Region], rec)
		ds.byPeriod[rec.Period] = append(ds.byPeriod[rec.Period], rec)

		// first record wins, like a linear find
		key := cellKey{region: rec.Region, period: rec.Period}
		if _, ok := ds.byCell[key]; !ok {
			ds.byCell[key] = rec
		}
	}

	return ds
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of every record in load order.
func (d *Dataset) Records() []models.DataRecord {
	return slices.Clone(d.records)
}

func (d *Dataset) Regions() []string {
	return slices.Clone(d.regions)
}

func (d *Dataset) Periods() []string {
	return slices.Clone(d.periods)
}

func (d *Dataset) ByRegion(region string) []models.DataRecord {
	return slices.Clone(d.byRegion[region])
}

func (d *Dataset) ByPeriod(period string) []models.DataRecord {
	return slices.Clone(d.byPeriod[period])
}

// Lookup returns the first record for a region and period.
func (d *Dataset) Lookup(region, period string) (models.DataRecord, bool) {
	rec, ok := d.byCell[cellKey{region: region, period: period}]
	return rec, ok
}
