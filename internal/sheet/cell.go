package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKey packs a (row, col) pair into the single identifier used
// throughout the engine: K = row*cols + col. The encoding is total and
// bijective over the rectangle [0,rows) x [0,cols). NoParent is the
// sentinel for "this slot of a formula has no parent".
type CellKey int32

// NoParent marks an absent parent slot in a Metadata record.
const NoParent CellKey = -1

// MaxDimension is the largest row or column count the engine accepts.
const MaxDimension = 32767

// Key packs a (row, col) pair into a cell key for a sheet with the given
// column count. Pure arithmetic; never fails for in-range inputs.
func Key(row, col, cols int) CellKey {
	return CellKey(row*cols + col)
}

// RowCol unpacks a cell key back into (row, col) for a sheet with the
// given column count.
func RowCol(key CellKey, cols int) (row, col int) {
	k := int(key)
	return k / cols, k % cols
}

// ColumnName renders a zero-based column index as its bijective base-26
// spreadsheet name (A, B, ..., Z, AA, AB, ...).
func ColumnName(col int) string {
	n := col + 1
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// Value is a tagged spreadsheet value: either a 32-bit signed integer or
// the distinguished Error marker. The zero Value is Integer(0), matching
// the default value of an untouched cell. Cause records why an Error
// value arose, for a driver that wants to show more than the bare ERR
// marker; it is the zero CellError (and ignored) when Err is false.
type Value struct {
	Err   bool
	Cause CellError
	N     int32
}

// IntValue wraps a plain integer result.
func IntValue(n int32) Value {
	return Value{N: n}
}

// ErrorValue is the distinguished error result, tagged with the cause
// that produced it. Errors propagate: any formula reading an Error
// input, or dividing by zero, yields this.
func ErrorValue(cause CellError) Value {
	return Value{Err: true, Cause: cause}
}

func (v Value) String() string {
	if v.Err {
		return "ERR"
	}
	return strconv.FormatInt(int64(v.N), 10)
}

// Describe renders a value the way a driver should show it to a user:
// the plain integer, or the cause-specific error message behind an
// Error cell rather than the bare ERR marker.
func (v Value) Describe() string {
	if !v.Err {
		return strconv.FormatInt(int64(v.N), 10)
	}
	return v.Cause.Error()
}

// Opcode classifies how a formula cell's value is recomputed. Values
// below 10 are range aggregates; 10-43 are binary arithmetic (base plus
// an operand-shape offset); 82 is a bare reference; 90 is SLEEP.
type Opcode int16

const (
	OpSum   Opcode = 5
	OpAvg   Opcode = 6
	OpMin   Opcode = 7
	OpMax   Opcode = 8
	OpStdev Opcode = 9

	opBaseAdd Opcode = 10
	opBaseSub Opcode = 20
	opBaseDiv Opcode = 30
	opBaseMul Opcode = 40

	// operand-shape offsets added to an arithmetic base: both operands
	// are cell references (+0), only the left is a reference and the
	// right a literal (+2), or only the right is a reference (+3).
	offsetBothRef      = 0
	offsetLeftRefOnly  = 2
	offsetRightRefOnly = 3

	OpRef   Opcode = 82
	OpSleep Opcode = 90
)

func isAggregateOpcode(op Opcode) bool {
	return op >= OpSum && op <= OpStdev
}

func isArithmeticOpcode(op Opcode) bool {
	o := int(op)
	if o < int(opBaseAdd) || o >= int(opBaseMul)+10 {
		return false
	}
	base := Opcode(o - o%10)
	offset := o % 10
	switch base {
	case opBaseAdd, opBaseSub, opBaseDiv, opBaseMul:
	default:
		return false
	}
	return offset == offsetBothRef || offset == offsetLeftRefOnly || offset == offsetRightRefOnly
}

func baseForOperator(opChar byte) (Opcode, bool) {
	switch opChar {
	case '+':
		return opBaseAdd, true
	case '-':
		return opBaseSub, true
	case '/':
		return opBaseDiv, true
	case '*':
		return opBaseMul, true
	}
	return 0, false
}

func aggregateOpcode(name string) (Opcode, bool) {
	switch strings.ToUpper(name) {
	case "SUM":
		return OpSum, true
	case "AVG":
		return OpAvg, true
	case "MIN":
		return OpMin, true
	case "MAX":
		return OpMax, true
	case "STDEV":
		return OpStdev, true
	}
	return 0, false
}

// Metadata is the compact record kept for every formula cell: an opcode
// and up to two parent keys. For range aggregates the parents are the
// range's top-left and bottom-right corners. Arithmetic with a literal
// operand keeps the literal out of this record entirely (see Store's
// literal side table) so Metadata stays a fixed width regardless of
// operand shape.
type Metadata struct {
	Opcode  Opcode
	Parent1 CellKey
	Parent2 CellKey
}

// ParseReference parses an A1-style reference ("[A-Z]+[0-9]+") into a
// zero-based (row, col), validating it against the sheet's bounds.
// Rows are written 1-based; columns are bijective base-26 (A=1).
func ParseReference(text string, rows, cols int) (row, col int, err error) {
	if !isRefShape(text) {
		return 0, 0, fmt.Errorf("%w: %q is not a cell reference", ErrInvalidCell, text)
	}

	i := 0
	for i < len(text) && isUpperLetter(text[i]) {
		i++
	}
	letters, digits := text[:i], text[i:]

	col = 0
	for _, ch := range letters {
		col = col*26 + int(ch-'A') + 1
	}
	col--

	rowNum, perr := strconv.ParseInt(digits, 10, 32)
	if perr != nil {
		return 0, 0, fmt.Errorf("%w: bad row in %q", ErrInvalidCell, text)
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("%w: row must be positive in %q", ErrInvalidCell, text)
	}
	row = int(rowNum) - 1

	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, 0, fmt.Errorf("%w: %q is out of bounds for a %dx%d sheet", ErrInvalidCell, text, rows, cols)
	}
	return row, col, nil
}

// ParseRange parses "<ref>:<ref>" into zero-based top-left/bottom-right
// corners, requiring start <= end on both axes.
func ParseRange(text string, rows, cols int) (startRow, startCol, endRow, endCol int, err error) {
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q is not a range", ErrInvalidRange, text)
	}

	startRow, startCol, err = ParseReference(text[:idx], rows, cols)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	endRow, endCol, err = ParseReference(text[idx+1:], rows, cols)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if startRow > endRow || startCol > endCol {
		return 0, 0, 0, 0, fmt.Errorf("%w: %q has its start after its end", ErrInvalidRange, text)
	}
	return startRow, startCol, endRow, endCol, nil
}
