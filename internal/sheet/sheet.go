package sheet

import (
	"fmt"
	"strings"
)

// Sheet is the single-worksheet evaluation core: a dense value grid, a
// dependency graph, and the formula evaluator that ties them together.
// It is driven entirely through Set, which mirrors a line of the form
// "<cell>=<expr>".
type Sheet struct {
	rows, cols int
	store      *Store
	graph      *Graph
	eval       *Evaluator
}

// NewSheet creates a rows x cols sheet with every cell at Integer(0).
// Both dimensions must be in [1, MaxDimension].
func NewSheet(rows, cols int) (*Sheet, error) {
	if rows < 1 || rows > MaxDimension || cols < 1 || cols > MaxDimension {
		return nil, fmt.Errorf("sheetcore: rows and cols must be in [1, %d], got rows=%d cols=%d", MaxDimension, rows, cols)
	}
	store := NewStore(rows, cols)
	return &Sheet{
		rows:  rows,
		cols:  cols,
		store: store,
		graph: NewGraph(cols),
		eval:  NewEvaluator(store),
	}, nil
}

// Rows and Cols report the sheet's fixed dimensions.
func (s *Sheet) Rows() int { return s.rows }
func (s *Sheet) Cols() int { return s.cols }

// SetSleeper overrides the evaluator's SLEEP primitive; tests use this
// to avoid blocking on wall-clock time.
func (s *Sheet) SetSleeper(sl Sleeper) {
	s.eval.SetSleeper(sl)
}

// Get reads the current value of a cell by zero-based (row, col).
func (s *Sheet) Get(row, col int) (Value, error) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return Value{}, fmt.Errorf("sheetcore: (%d,%d) out of bounds for a %dx%d sheet", row, col, s.rows, s.cols)
	}
	return s.store.Get(Key(row, col, s.cols)), nil
}

// GetRef reads the current value of a cell by its A1-style reference.
func (s *Sheet) GetRef(ref string) (Value, error) {
	row, col, err := ParseReference(strings.TrimSpace(ref), s.rows, s.cols)
	if err != nil {
		return Value{}, err
	}
	return s.store.Get(Key(row, col, s.cols)), nil
}

// Set runs a single "<cell>=<expr>" command against the sheet. It
// implements the dispatcher's snapshot/rollback algorithm: the target
// cell's old metadata, value, literal, and edges are captured before
// any mutation, and fully restored if the command fails at any step —
// a bad parse, or a formula that introduces a cycle.
func (s *Sheet) Set(cmd string) Status {
	trimmed := strings.TrimSpace(cmd)
	eq := strings.IndexByte(trimmed, '=')
	if eq < 0 {
		return StatusUnrecognized
	}

	cellText := strings.TrimSpace(trimmed[:eq])
	exprText := strings.TrimSpace(trimmed[eq+1:])

	row, col, err := ParseReference(cellText, s.rows, s.cols)
	if err != nil {
		return StatusInvalidCell
	}
	key := Key(row, col, s.cols)

	oldMeta, hadMeta := s.store.Meta(key)
	oldLiteral, hadLiteral := s.store.Literal(key)
	oldValue := s.store.Get(key)

	s.graph.RemoveAllParentsOf(key)

	result, perr := ParseFormula(exprText, s.rows, s.cols)
	if perr != nil {
		s.restoreCell(key, oldMeta, hadMeta, oldLiteral, hadLiteral, oldValue)
		return statusForParseError(perr)
	}

	s.applyResult(key, result)
	s.store.Set(key, s.valueForResult(key, result))

	if Propagate(s.graph, s.store, s.eval, key) {
		s.graph.RemoveAllParentsOf(key)
		s.restoreCell(key, oldMeta, hadMeta, oldLiteral, hadLiteral, oldValue)
		Propagate(s.graph, s.store, s.eval, key)
		return StatusCircularRef
	}

	return StatusOk
}

// restoreCell puts a cell's metadata, literal, value, and edges back to
// a previously captured snapshot.
func (s *Sheet) restoreCell(key CellKey, meta Metadata, hadMeta bool, literal int32, hadLiteral bool, value Value) {
	if hadMeta {
		s.store.SetMeta(key, meta)
		s.addEdgesForMeta(key, meta)
	} else {
		s.store.DropMeta(key)
	}
	if hadLiteral {
		s.store.SetLiteral(key, literal)
	} else {
		s.store.ClearLiteral(key)
	}
	s.store.Set(key, value)
}

// applyResult installs a parsed formula's metadata, literal, and edges,
// or demotes the cell to a plain constant.
func (s *Sheet) applyResult(key CellKey, result ParseResult) {
	if result.IsConstant {
		s.store.DropMeta(key)
		s.store.ClearLiteral(key)
		return
	}

	m := Metadata{Opcode: result.Opcode, Parent1: result.Parent1, Parent2: result.Parent2}
	s.store.SetMeta(key, m)
	if result.HasLiteral {
		s.store.SetLiteral(key, result.Literal)
	} else {
		s.store.ClearLiteral(key)
	}
	s.addEdgesForMeta(key, m)
}

// valueForResult computes a cell's initial value right after a Set,
// before propagation reaches its descendants.
func (s *Sheet) valueForResult(key CellKey, result ParseResult) Value {
	if result.IsConstant {
		return result.ConstantValue
	}
	m := Metadata{Opcode: result.Opcode, Parent1: result.Parent1, Parent2: result.Parent2}
	return s.eval.Evaluate(key, m)
}

// addEdgesForMeta installs the graph edges implied by a cell's opcode
// and operand shape.
func (s *Sheet) addEdgesForMeta(key CellKey, m Metadata) {
	switch {
	case m.Opcode == OpRef:
		s.graph.AddSingleEdge(m.Parent1, key)

	case isAggregateOpcode(m.Opcode):
		startRow, startCol := RowCol(m.Parent1, s.cols)
		endRow, endCol := RowCol(m.Parent2, s.cols)
		s.graph.AddRangeEdge(startRow, startCol, endRow, endCol, key)

	case isArithmeticOpcode(m.Opcode):
		offset := int(m.Opcode) % 10
		if offset == offsetBothRef || offset == offsetLeftRefOnly {
			s.graph.AddSingleEdge(m.Parent1, key)
		}
		if offset == offsetBothRef || offset == offsetRightRefOnly {
			s.graph.AddSingleEdge(m.Parent2, key)
		}

	case m.Opcode == OpSleep:
		if m.Parent1 != NoParent {
			s.graph.AddSingleEdge(m.Parent1, key)
		}
	}
}
