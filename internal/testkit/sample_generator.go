// Package testkit generates deterministic sample datasets used by tests,
// the demo endpoints, and the CLI.
package testkit

import (
	"math"
	"math/rand"
	"time"

	"vizboard/domain/table"
)

// SampleConfig configures the retail sales sample generator
type SampleConfig struct {
	Records     int       `json:"records"`
	Seed        int64     `json:"seed"`
	StartDate   time.Time `json:"start_date"`
	Days        int       `json:"days"`
	MissingRate float64   `json:"missing_rate"`
}

// DefaultSampleConfig returns sensible defaults for sample generation
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Records:     500,
		Seed:        42,
		StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:        90,
		MissingRate: 0.03,
	}
}

// SampleGenerator produces a seeded retail sales dataset with the mix of
// field kinds the charts need: categoricals, a date, and numerics, plus a
// sprinkling of nulls.
type SampleGenerator struct {
	config SampleConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a generator; identical configs yield
// identical datasets
func NewSampleGenerator(config SampleConfig) *SampleGenerator {
	if config.Records < 1 {
		config.Records = 1
	}
	if config.Days < 1 {
		config.Days = 1
	}
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type sampleProduct struct {
	name      string
	basePrice float64
}

var sampleProducts = []sampleProduct{
	{"Laptop", 1200},
	{"Phone", 800},
	{"Tablet", 450},
	{"Monitor", 320},
	{"Headset", 90},
	{"Keyboard", 60},
}

var sampleRegions = []string{"North", "South", "East", "West"}
var sampleChannels = []string{"Online", "Retail", "Partner"}

// Generate builds the sample dataset
func (g *SampleGenerator) Generate() *table.Dataset {
	columns := []string{"date", "region", "channel", "product", "units", "revenue", "satisfaction"}

	records := make([]table.Record, 0, g.config.Records)
	for i := 0; i < g.config.Records; i++ {
		records = append(records, g.generateSale())
	}
	return table.NewDataset(columns, records)
}

// generateSale produces one sales record
func (g *SampleGenerator) generateSale() table.Record {
	product := sampleProducts[g.rng.Intn(len(sampleProducts))]
	region := sampleRegions[g.rng.Intn(len(sampleRegions))]
	channel := sampleChannels[g.rng.Intn(len(sampleChannels))]

	day := g.rng.Intn(g.config.Days)
	date := g.config.StartDate.AddDate(0, 0, day)

	units := 1 + g.rng.Intn(9)
	// Price wobbles around base, weekend days sell slightly better
	price := product.basePrice * (0.9 + g.rng.Float64()*0.2)
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		price *= 1.05
	}
	revenue := math.Round(float64(units)*price*100) / 100
	satisfaction := math.Round((2.5+g.rng.Float64()*2.5)*10) / 10

	r := table.Record{
		"date":         table.NewDateCell(date),
		"region":       table.NewStringCell(region),
		"channel":      table.NewStringCell(channel),
		"product":      table.NewStringCell(product.name),
		"units":        table.NewNumberCell(float64(units)),
		"revenue":      table.NewNumberCell(revenue),
		"satisfaction": table.NewNumberCell(satisfaction),
	}

	// Knock out the occasional value so null handling stays exercised
	if g.rng.Float64() < g.config.MissingRate {
		switch g.rng.Intn(3) {
		case 0:
			r["region"] = table.NullCell()
		case 1:
			r["revenue"] = table.NullCell()
		default:
			r["satisfaction"] = table.NullCell()
		}
	}
	return r
}
