package fdcp

import (
	"context"
	"testing"
)

// A classic 9x9 puzzle (0 = blank) with a unique solution, solved through
// the row/column/box all-different families the way a front-end would post
// them.
var sudokuPuzzle = [9][9]int64{
	{5, 3, 0, 0, 7, 0, 0, 0, 0},
	{6, 0, 0, 1, 9, 5, 0, 0, 0},
	{0, 9, 8, 0, 0, 0, 0, 6, 0},
	{8, 0, 0, 0, 6, 0, 0, 0, 3},
	{4, 0, 0, 8, 0, 3, 0, 0, 1},
	{7, 0, 0, 0, 2, 0, 0, 0, 6},
	{0, 6, 0, 0, 0, 0, 2, 8, 0},
	{0, 0, 0, 4, 1, 9, 0, 0, 5},
	{0, 0, 0, 0, 8, 0, 0, 7, 9},
}

func TestSudokuSolve(t *testing.T) {
	o := NewOrchestrator(DefaultConfig())
	var cells [9][9]VarId
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if v := sudokuPuzzle[r][c]; v != 0 {
				cells[r][c], _ = o.NewInteger(v, v)
			} else {
				cells[r][c], _ = o.NewInteger(1, 9)
			}
		}
	}
	for r := 0; r < 9; r++ {
		var row, col []View
		for c := 0; c < 9; c++ {
			row = append(row, o.Var(cells[r][c]))
			col = append(col, o.Var(cells[c][r]))
		}
		o.Post(NewAllDifferent(row))
		o.Post(NewAllDifferent(col))
	}
	for br := 0; br < 3; br++ {
		for bc := 0; bc < 3; bc++ {
			var box []View
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					box = append(box, o.Var(cells[3*br+r][3*bc+c]))
				}
			}
			o.Post(NewAllDifferent(box))
		}
	}

	sol, st, err := o.Solve(context.Background())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if st.PropagationCount == 0 {
		t.Fatalf("no propagation recorded")
	}

	var grid [9][9]int64
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			v, ok := sol.AsInt(cells[r][c])
			if !ok || v < 1 || v > 9 {
				t.Fatalf("cell (%d,%d) unassigned or out of range: %v", r, c, v)
			}
			grid[r][c] = v
		}
	}

	// Clues preserved.
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if v := sudokuPuzzle[r][c]; v != 0 && grid[r][c] != v {
				t.Fatalf("clue (%d,%d)=%d overwritten with %d", r, c, v, grid[r][c])
			}
		}
	}

	checkGroup := func(vals []int64, what string) {
		seen := map[int64]bool{}
		for _, v := range vals {
			if seen[v] {
				t.Fatalf("%s repeats %d", what, v)
			}
			seen[v] = true
		}
	}
	for r := 0; r < 9; r++ {
		var row, col []int64
		for c := 0; c < 9; c++ {
			row = append(row, grid[r][c])
			col = append(col, grid[c][r])
		}
		checkGroup(row, "row")
		checkGroup(col, "column")
	}
	for br := 0; br < 3; br++ {
		for bc := 0; bc < 3; bc++ {
			var box []int64
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					box = append(box, grid[3*br+r][3*bc+c])
				}
			}
			checkGroup(box, "box")
		}
	}
}
