package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testRows, testCols = 100, 100

func TestParseFormulaLiteral(t *testing.T) {
	r, err := ParseFormula("42", testRows, testCols)
	require.NoError(t, err)
	require.True(t, r.IsConstant)
	require.Equal(t, IntValue(42), r.ConstantValue)
}

func TestParseFormulaNegativeLiteral(t *testing.T) {
	r, err := ParseFormula("-42", testRows, testCols)
	require.NoError(t, err)
	require.True(t, r.IsConstant)
	require.Equal(t, IntValue(-42), r.ConstantValue)
}

func TestParseFormulaReference(t *testing.T) {
	r, err := ParseFormula("A1", testRows, testCols)
	require.NoError(t, err)
	require.False(t, r.IsConstant)
	require.Equal(t, OpRef, r.Opcode)
	require.Equal(t, Key(0, 0, testCols), r.Parent1)
}

func TestParseFormulaBothRefArithmetic(t *testing.T) {
	r, err := ParseFormula("A1+B2", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, opBaseAdd, r.Opcode)
	require.Equal(t, Key(0, 0, testCols), r.Parent1)
	require.Equal(t, Key(1, 1, testCols), r.Parent2)
	require.False(t, r.HasLiteral)
}

func TestParseFormulaLeftRefRightLiteral(t *testing.T) {
	r, err := ParseFormula("A1-3", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, opBaseSub+offsetLeftRefOnly, r.Opcode)
	require.Equal(t, Key(0, 0, testCols), r.Parent1)
	require.Equal(t, NoParent, r.Parent2)
	require.True(t, r.HasLiteral)
	require.EqualValues(t, 3, r.Literal)
}

func TestParseFormulaRightRefLeftLiteral(t *testing.T) {
	r, err := ParseFormula("3-A1", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, opBaseSub+offsetRightRefOnly, r.Opcode)
	require.Equal(t, NoParent, r.Parent1)
	require.Equal(t, Key(0, 0, testCols), r.Parent2)
	require.True(t, r.HasLiteral)
	require.EqualValues(t, 3, r.Literal)
}

func TestParseFormulaConstantFold(t *testing.T) {
	r, err := ParseFormula("6/2", testRows, testCols)
	require.NoError(t, err)
	require.True(t, r.IsConstant)
	require.Equal(t, IntValue(3), r.ConstantValue)
}

func TestParseFormulaConstantFoldDivideByZero(t *testing.T) {
	r, err := ParseFormula("6/0", testRows, testCols)
	require.NoError(t, err)
	require.True(t, r.IsConstant)
	require.True(t, r.ConstantValue.Err)
}

func TestParseFormulaAggregate(t *testing.T) {
	r, err := ParseFormula("SUM(A1:A10)", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, OpSum, r.Opcode)
	require.Equal(t, Key(0, 0, testCols), r.Parent1)
	require.Equal(t, Key(9, 0, testCols), r.Parent2)
}

func TestParseFormulaSleepLiteral(t *testing.T) {
	r, err := ParseFormula("SLEEP(5)", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, OpSleep, r.Opcode)
	require.Equal(t, NoParent, r.Parent1)
	require.True(t, r.HasLiteral)
	require.EqualValues(t, 5, r.Literal)
}

func TestParseFormulaSleepRef(t *testing.T) {
	r, err := ParseFormula("SLEEP(A1)", testRows, testCols)
	require.NoError(t, err)
	require.Equal(t, OpSleep, r.Opcode)
	require.Equal(t, Key(0, 0, testCols), r.Parent1)
	require.False(t, r.HasLiteral)
}

func TestParseFormulaInvalid(t *testing.T) {
	cases := []string{"", "+1", "A1+", "+A1", "@@@", "UNKNOWN(A1:A2)"}
	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFormula(expr, testRows, testCols)
			require.Error(t, err)
		})
	}
}

func TestParseFormulaOutOfBoundsReference(t *testing.T) {
	_, err := ParseFormula("ZZ99999", 10, 10)
	require.ErrorIs(t, err, ErrInvalidCell)
}

func TestParseFormulaBadRange(t *testing.T) {
	_, err := ParseFormula("SUM(B1:A1)", testRows, testCols)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestColumnNameBijective(t *testing.T) {
	require.Equal(t, "A", ColumnName(0))
	require.Equal(t, "Z", ColumnName(25))
	require.Equal(t, "AA", ColumnName(26))
	require.Equal(t, "AZ", ColumnName(51))
	require.Equal(t, "BA", ColumnName(52))
}
