package aggregate

import (
	"math"
	"testing"

	"vizboard/domain/table"
)

func matrixRecord(x, y string, v float64) table.Record {
	return table.Record{
		"x": table.NewStringCell(x),
		"y": table.NewStringCell(y),
		"v": table.NewNumberCell(v),
	}
}

// TestMatrixFill_FullCrossProduct verifies output length is always
// |distinct x| * |distinct y|, with zero fill for unobserved pairs
func TestMatrixFill_FullCrossProduct(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("a", "p", 1),
		matrixRecord("b", "q", 2),
		matrixRecord("c", "p", 3),
	}

	cells, xs, ys := e.MatrixFill(records, "x", "y", "v")
	if len(xs) != 3 || len(ys) != 2 {
		t.Fatalf("axes = %d x %d, expected 3 x 2", len(xs), len(ys))
	}
	if len(cells) != 6 {
		t.Fatalf("got %d cells, expected 6 (full cross product)", len(cells))
	}

	observed := 0
	for _, c := range cells {
		if c.Count > 0 {
			observed++
		} else if c.Value != 0 {
			t.Errorf("unobserved pair (%s, %s) has value %g, expected 0", c.X.Label(), c.Y.Label(), c.Value)
		}
	}
	if observed != 3 {
		t.Errorf("observed %d pairs, expected 3", observed)
	}
}

// TestMatrixFill_AveragesPerPair verifies value is the mean of the pair's
// values, not the sum
func TestMatrixFill_AveragesPerPair(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("a", "p", 10),
		matrixRecord("a", "p", 20),
		matrixRecord("a", "p", 30),
	}

	cells, _, _ := e.MatrixFill(records, "x", "y", "v")
	if len(cells) != 1 {
		t.Fatalf("got %d cells, expected 1", len(cells))
	}
	if math.Abs(cells[0].Value-20) > 1e-9 {
		t.Errorf("value = %g, expected average 20", cells[0].Value)
	}
	if cells[0].Count != 3 {
		t.Errorf("count = %d, expected 3", cells[0].Count)
	}
}

// TestMatrixFill_AxesSortedByLabel verifies ascending string ordering on
// both axes
func TestMatrixFill_AxesSortedByLabel(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("gamma", "z", 1),
		matrixRecord("alpha", "m", 1),
		matrixRecord("beta", "a", 1),
	}

	_, xs, ys := e.MatrixFill(records, "x", "y", "v")

	wantX := []string{"alpha", "beta", "gamma"}
	for i := range wantX {
		if xs[i] != wantX[i] {
			t.Errorf("x axis[%d] = %s, expected %s", i, xs[i], wantX[i])
		}
	}
	wantY := []string{"a", "m", "z"}
	for i := range wantY {
		if ys[i] != wantY[i] {
			t.Errorf("y axis[%d] = %s, expected %s", i, ys[i], wantY[i])
		}
	}
}

// TestMatrixFill_RowMajorByX verifies cell emission order follows the
// sorted axes, x outer and y inner
func TestMatrixFill_RowMajorByX(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("b", "q", 1),
		matrixRecord("a", "p", 1),
	}

	cells, _, _ := e.MatrixFill(records, "x", "y", "v")
	wantOrder := [][2]string{{"a", "p"}, {"a", "q"}, {"b", "p"}, {"b", "q"}}
	for i, want := range wantOrder {
		if cells[i].X.Label() != want[0] || cells[i].Y.Label() != want[1] {
			t.Errorf("cell[%d] = (%s, %s), expected (%s, %s)",
				i, cells[i].X.Label(), cells[i].Y.Label(), want[0], want[1])
		}
	}
}

// TestMatrixFill_NullCellsFormMissingCategory verifies null axis values
// participate as their own category
func TestMatrixFill_NullCellsFormMissingCategory(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("a", "p", 4),
		{"x": table.NullCell(), "y": table.NewStringCell("p"), "v": table.NewNumberCell(6)},
	}

	cells, xs, _ := e.MatrixFill(records, "x", "y", "v")
	if len(xs) != 2 {
		t.Fatalf("x axis = %v, expected 2 entries including (missing)", xs)
	}
	if xs[0] != "(missing)" {
		t.Errorf("x axis[0] = %s, expected (missing) to sort first", xs[0])
	}

	found := false
	for _, c := range cells {
		if c.X.IsNull() && c.Y.Label() == "p" {
			found = true
			if c.Value != 6 {
				t.Errorf("(missing, p) value = %g, expected 6", c.Value)
			}
		}
	}
	if !found {
		t.Error("no cell for the (missing, p) pair")
	}
}

// TestMatrixFill_NullValuesAverageAsZero verifies null values contribute
// zero to the pair average while still counting the record
func TestMatrixFill_NullValuesAverageAsZero(t *testing.T) {
	e := NewEngine()
	records := []table.Record{
		matrixRecord("a", "p", 10),
		{"x": table.NewStringCell("a"), "y": table.NewStringCell("p"), "v": table.NullCell()},
	}

	cells, _, _ := e.MatrixFill(records, "x", "y", "v")
	if len(cells) != 1 {
		t.Fatalf("got %d cells, expected 1", len(cells))
	}
	if math.Abs(cells[0].Value-5) > 1e-9 {
		t.Errorf("value = %g, expected 5 (10 + 0 over 2 records)", cells[0].Value)
	}
	if cells[0].Count != 2 {
		t.Errorf("count = %d, expected 2", cells[0].Count)
	}
}

// TestMatrixFill_Empty verifies empty input yields empty output
func TestMatrixFill_Empty(t *testing.T) {
	e := NewEngine()
	cells, xs, ys := e.MatrixFill(nil, "x", "y", "v")
	if len(cells) != 0 || len(xs) != 0 || len(ys) != 0 {
		t.Errorf("empty input produced %d cells, %d x, %d y", len(cells), len(xs), len(ys))
	}
}
