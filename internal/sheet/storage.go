package sheet

// Store holds the dense value grid alongside the two sparse side tables
// that back formula cells: per-cell Metadata (opcode + parent keys) and
// per-cell literal operands. Only cells that are formulas ever get an
// entry in meta or literals; the grid itself is the only dense
// structure in the engine, sized rows*cols regardless of how many cells
// are actually in use.
type Store struct {
	rows, cols int
	grid       []Value
	meta       map[CellKey]Metadata
	literals   map[CellKey]int32
}

// NewStore allocates a dense rows*cols grid, zero-valued (Integer(0)
// everywhere), with empty sparse side tables.
func NewStore(rows, cols int) *Store {
	return &Store{
		rows:     rows,
		cols:     cols,
		grid:     make([]Value, rows*cols),
		meta:     make(map[CellKey]Metadata),
		literals: make(map[CellKey]int32),
	}
}

// Get reads the current value of a cell. Unset cells read as Integer(0).
func (st *Store) Get(key CellKey) Value {
	return st.grid[key]
}

// Set overwrites the current value of a cell.
func (st *Store) Set(key CellKey, v Value) {
	st.grid[key] = v
}

// Meta returns a cell's formula metadata, if it has any.
func (st *Store) Meta(key CellKey) (Metadata, bool) {
	m, ok := st.meta[key]
	return m, ok
}

// SetMeta installs formula metadata for a cell.
func (st *Store) SetMeta(key CellKey, m Metadata) {
	st.meta[key] = m
}

// DropMeta removes a cell's formula metadata, demoting it back to a
// plain value cell.
func (st *Store) DropMeta(key CellKey) {
	delete(st.meta, key)
}

// Literal returns a cell's stored literal operand, if it has one.
func (st *Store) Literal(key CellKey) (int32, bool) {
	v, ok := st.literals[key]
	return v, ok
}

// SetLiteral installs a literal operand for a cell's formula.
func (st *Store) SetLiteral(key CellKey, v int32) {
	st.literals[key] = v
}

// ClearLiteral removes a cell's stored literal operand.
func (st *Store) ClearLiteral(key CellKey) {
	delete(st.literals, key)
}
