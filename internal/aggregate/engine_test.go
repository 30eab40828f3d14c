package aggregate

import (
	"fmt"
	"testing"
	"time"

	apperrors "vizboard/internal/errors"

	"vizboard/domain/chart"
	"vizboard/domain/table"
)

func dispatchRecords() []table.Record {
	out := make([]table.Record, 0, 6)
	for i := 0; i < 6; i++ {
		out = append(out, table.Record{
			"region":  table.NewStringCell([]string{"N", "S", "E"}[i%3]),
			"channel": table.NewStringCell([]string{"web", "store"}[i%2]),
			"date":    table.NewDateCell(time.Date(2023, 5, i+1, 0, 0, 0, 0, time.UTC)),
			"revenue": table.NewNumberCell(float64(10 * (i + 1))),
			"units":   table.NewNumberCell(float64(i + 1)),
		})
	}
	return out
}

// TestEngine_AggregateDispatch verifies each chart type fills its own
// payload slice
func TestEngine_AggregateDispatch(t *testing.T) {
	e := NewEngine()
	records := dispatchRecords()

	bar, err := e.Aggregate(chart.TypeBar, records, chart.Mapping{
		chart.RoleX: "region", chart.RoleY: "revenue",
	})
	if err != nil {
		t.Fatalf("bar aggregate failed: %v", err)
	}
	if len(bar.Rows) != 3 {
		t.Errorf("bar rows = %d, expected 3 regions", len(bar.Rows))
	}

	line, err := e.Aggregate(chart.TypeLine, records, chart.Mapping{
		chart.RoleX: "date", chart.RoleY: "revenue", chart.RoleGroup: "region",
	})
	if err != nil {
		t.Fatalf("line aggregate failed: %v", err)
	}
	if len(line.Series) != 3 {
		t.Errorf("line series = %d, expected 3 groups", len(line.Series))
	}

	scatter, err := e.Aggregate(chart.TypeScatter, records, chart.Mapping{
		chart.RoleX: "revenue", chart.RoleY: "units",
	})
	if err != nil {
		t.Fatalf("scatter aggregate failed: %v", err)
	}
	if len(scatter.Points) != 6 {
		t.Errorf("scatter points = %d, expected 6", len(scatter.Points))
	}

	pie, err := e.Aggregate(chart.TypePie, records, chart.Mapping{
		chart.RoleLabel: "region", chart.RoleValue: "revenue",
	})
	if err != nil {
		t.Fatalf("pie aggregate failed: %v", err)
	}
	if len(pie.Rows) != 3 {
		t.Errorf("pie rows = %d, expected 3", len(pie.Rows))
	}

	hm, err := e.Aggregate(chart.TypeHeatmap, records, chart.Mapping{
		chart.RoleX: "region", chart.RoleY: "channel", chart.RoleValue: "revenue",
	})
	if err != nil {
		t.Fatalf("heatmap aggregate failed: %v", err)
	}
	if len(hm.Matrix) != len(hm.XCategories)*len(hm.YCategories) {
		t.Errorf("matrix length %d != %d x %d", len(hm.Matrix), len(hm.XCategories), len(hm.YCategories))
	}
}

// TestEngine_AggregatePieFold verifies the slice cap applies through the
// dispatcher
func TestEngine_AggregatePieFold(t *testing.T) {
	e := NewEngine()

	records := make([]table.Record, 0, 20)
	for i := 0; i < 20; i++ {
		records = append(records, table.Record{
			"label": table.NewStringCell(fmt.Sprintf("slice-%02d", i)),
			"value": table.NewNumberCell(float64(i + 1)),
		})
	}

	result, err := e.Aggregate(chart.TypePie, records, chart.Mapping{
		chart.RoleLabel: "label", chart.RoleValue: "value",
	})
	if err != nil {
		t.Fatalf("pie aggregate failed: %v", err)
	}
	if len(result.Rows) != chart.MaxPieSlices {
		t.Errorf("pie rows = %d, expected %d", len(result.Rows), chart.MaxPieSlices)
	}
	if result.Rows[chart.MaxPieSlices-1].Label() != chart.OthersLabel {
		t.Errorf("last row = %q, expected %q", result.Rows[chart.MaxPieSlices-1].Label(), chart.OthersLabel)
	}
}

// TestEngine_AggregateUnmappedRole verifies the fail-fast path for caller
// misuse
func TestEngine_AggregateUnmappedRole(t *testing.T) {
	e := NewEngine()

	_, err := e.Aggregate(chart.TypeBar, dispatchRecords(), chart.Mapping{chart.RoleX: "region"})
	if err == nil {
		t.Fatal("expected error for unmapped y role")
	}
	if apperrors.GetCode(err) != apperrors.CodeInvalidInput {
		t.Errorf("error code = %s, expected %s", apperrors.GetCode(err), apperrors.CodeInvalidInput)
	}
}

// TestEngine_AggregateEmptyRecords verifies every strategy degrades to an
// empty result instead of failing
func TestEngine_AggregateEmptyRecords(t *testing.T) {
	e := NewEngine()

	mappings := map[chart.Type]chart.Mapping{
		chart.TypeBar:     {chart.RoleX: "a", chart.RoleY: "b"},
		chart.TypeLine:    {chart.RoleX: "a", chart.RoleY: "b"},
		chart.TypeScatter: {chart.RoleX: "a", chart.RoleY: "b"},
		chart.TypePie:     {chart.RoleLabel: "a", chart.RoleValue: "b"},
		chart.TypeHeatmap: {chart.RoleX: "a", chart.RoleY: "b", chart.RoleValue: "c"},
	}

	for ct, m := range mappings {
		result, err := e.Aggregate(ct, nil, m)
		if err != nil {
			t.Errorf("%s on empty records failed: %v", ct, err)
			continue
		}
		if len(result.Rows)+len(result.Series)+len(result.Points)+len(result.Matrix) != 0 {
			t.Errorf("%s on empty records produced non-empty payload", ct)
		}
	}
}
