package sheet

import "strings"

// ParseResult is what ParseFormula reduces a formula string down to: no
// AST survives parsing. Either the formula folds to a plain constant
// (IsConstant), or it becomes a Metadata record (opcode + parent keys)
// plus an optional literal operand.
type ParseResult struct {
	IsConstant    bool
	ConstantValue Value

	Opcode  Opcode
	Parent1 CellKey
	Parent2 CellKey

	HasLiteral bool
	Literal    int32
}

// operand is the classification of one side of a binary expression, or
// of a SLEEP argument: either a cell reference or a literal integer.
type operand struct {
	isRef bool
	key   CellKey
	lit   int32
}

func classifyOperand(s string, rows, cols int) (operand, error) {
	if isRefShape(s) {
		row, col, err := ParseReference(s, rows, cols)
		if err != nil {
			return operand{}, err
		}
		return operand{isRef: true, key: Key(row, col, cols)}, nil
	}
	if lit, ok := tryParseInt(s); ok {
		return operand{lit: lit}, nil
	}
	return operand{}, ErrUnrecognized
}

func foldConstant(opChar byte, a, b int32) Value {
	switch opChar {
	case '+':
		return IntValue(a + b)
	case '-':
		return IntValue(a - b)
	case '*':
		return IntValue(a * b)
	case '/':
		if b == 0 {
			return ErrorValue(CellError{DivideByZero: true})
		}
		return IntValue(a / b)
	}
	return ErrorValue(CellError{})
}

// ParseFormula classifies the right-hand side of a "<cell>=<expr>"
// command, in the order: function call (SLEEP or an aggregate), binary
// arithmetic, a bare cell reference, or a bare integer literal.
func ParseFormula(expr string, rows, cols int) (ParseResult, error) {
	if expr == "" {
		return ParseResult{}, ErrUnrecognized
	}

	if name, arg, ok := parseFuncCall(expr); ok {
		return parseFuncResult(name, arg, rows, cols)
	}

	if idx, opChar, ok := findTopLevelOperator(expr); ok {
		return parseBinaryResult(expr, idx, opChar, rows, cols)
	}

	if isRefShape(expr) {
		row, col, err := ParseReference(expr, rows, cols)
		if err != nil {
			return ParseResult{}, err
		}
		return ParseResult{Opcode: OpRef, Parent1: Key(row, col, cols), Parent2: NoParent}, nil
	}

	if lit, ok := tryParseInt(expr); ok {
		return ParseResult{IsConstant: true, ConstantValue: IntValue(lit)}, nil
	}

	return ParseResult{}, ErrUnrecognized
}

func parseFuncResult(name, arg string, rows, cols int) (ParseResult, error) {
	upper := strings.ToUpper(name)

	if upper == "SLEEP" {
		op, err := classifyOperand(arg, rows, cols)
		if err != nil {
			return ParseResult{}, err
		}
		if op.isRef {
			return ParseResult{Opcode: OpSleep, Parent1: op.key, Parent2: NoParent}, nil
		}
		return ParseResult{Opcode: OpSleep, Parent1: NoParent, Parent2: NoParent, HasLiteral: true, Literal: op.lit}, nil
	}

	if opcode, ok := aggregateOpcode(upper); ok {
		startRow, startCol, endRow, endCol, err := ParseRange(arg, rows, cols)
		if err != nil {
			return ParseResult{}, err
		}
		return ParseResult{
			Opcode:  opcode,
			Parent1: Key(startRow, startCol, cols),
			Parent2: Key(endRow, endCol, cols),
		}, nil
	}

	return ParseResult{}, ErrUnrecognized
}

func parseBinaryResult(expr string, idx int, opChar byte, rows, cols int) (ParseResult, error) {
	lhsText, rhsText := expr[:idx], expr[idx+1:]
	if lhsText == "" || rhsText == "" {
		return ParseResult{}, ErrUnrecognized
	}

	left, err := classifyOperand(lhsText, rows, cols)
	if err != nil {
		return ParseResult{}, err
	}
	right, err := classifyOperand(rhsText, rows, cols)
	if err != nil {
		return ParseResult{}, err
	}

	base, ok := baseForOperator(opChar)
	if !ok {
		return ParseResult{}, ErrUnrecognized
	}

	switch {
	case left.isRef && right.isRef:
		return ParseResult{Opcode: base + offsetBothRef, Parent1: left.key, Parent2: right.key}, nil
	case left.isRef && !right.isRef:
		return ParseResult{Opcode: base + offsetLeftRefOnly, Parent1: left.key, Parent2: NoParent, HasLiteral: true, Literal: right.lit}, nil
	case !left.isRef && right.isRef:
		return ParseResult{Opcode: base + offsetRightRefOnly, Parent1: NoParent, Parent2: right.key, HasLiteral: true, Literal: left.lit}, nil
	default:
		return ParseResult{IsConstant: true, ConstantValue: foldConstant(opChar, left.lit, right.lit)}, nil
	}
}
