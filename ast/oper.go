package ast

// UnaryOpKind is the kind of a unary operator.
type UnaryOpKind int

// Enumeration of unary operators.
const (
	UOPostInc UnaryOpKind = iota // x++
	UOPostDec                    // x--
	UOPreInc                     // ++x
	UOPreDec                     // --x
	UOPlus                       // +x
	UOMinus                      // -x
	UONot                        // ~x
	UOLNot                       // !x
)

var unaryOpNames = [...]string{
	UOPostInc: "x++",
	UOPostDec: "x--",
	UOPreInc:  "++x",
	UOPreDec:  "--x",
	UOPlus:    "+",
	UOMinus:   "-",
	UONot:     "~",
	UOLNot:    "!",
}

func (k UnaryOpKind) String() string {
	if k < 0 || int(k) >= len(unaryOpNames) {
		return "<invalid unary operator>"
	}

	return unaryOpNames[k]
}

// IsIncDec returns whether the operator mutates its operand in place.
func (k UnaryOpKind) IsIncDec() bool {
	return k <= UOPreDec
}

// IsArithmetic returns whether the operator computes a new value from its
// operand without mutating it.
func (k UnaryOpKind) IsArithmetic() bool {
	return k >= UOPlus && k <= UOLNot
}

// UnaryOpFromName looks up a unary operator by its spelling.  Increment and
// decrement are spelled with an `x` marking the operand position.
func UnaryOpFromName(name string) (UnaryOpKind, bool) {
	for k, n := range unaryOpNames {
		if n == name {
			return UnaryOpKind(k), true
		}
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// BinaryOpKind is the kind of a binary operator.
type BinaryOpKind int

// Enumeration of binary operators.  The order of the groups matters: the
// classification methods below test ranges.
const (
	// Multiplicative.
	BOMul BinaryOpKind = iota
	BODiv
	BORem

	// Additive.
	BOAdd
	BOSub

	// Shift.
	BOShl
	BOShr

	// Comparison.
	BOLT
	BOGT
	BOLE
	BOGE
	BOEQ
	BONE

	// Bitwise.
	BOAnd
	BOXor
	BOOr

	// Logical.
	BOLAnd
	BOLOr

	// Assignment.
	BOAssign
	BOMulAssign
	BODivAssign
	BORemAssign
	BOAddAssign
	BOSubAssign
	BOShlAssign
	BOShrAssign
	BOAndAssign
	BOXorAssign
	BOOrAssign
)

var binaryOpNames = [...]string{
	BOMul:       "*",
	BODiv:       "/",
	BORem:       "%",
	BOAdd:       "+",
	BOSub:       "-",
	BOShl:       "<<",
	BOShr:       ">>",
	BOLT:        "<",
	BOGT:        ">",
	BOLE:        "<=",
	BOGE:        ">=",
	BOEQ:        "==",
	BONE:        "!=",
	BOAnd:       "&",
	BOXor:       "^",
	BOOr:        "|",
	BOLAnd:      "&&",
	BOLOr:       "||",
	BOAssign:    "=",
	BOMulAssign: "*=",
	BODivAssign: "/=",
	BORemAssign: "%=",
	BOAddAssign: "+=",
	BOSubAssign: "-=",
	BOShlAssign: "<<=",
	BOShrAssign: ">>=",
	BOAndAssign: "&=",
	BOXorAssign: "^=",
	BOOrAssign:  "|=",
}

func (k BinaryOpKind) String() string {
	if k < 0 || int(k) >= len(binaryOpNames) {
		return "<invalid binary operator>"
	}

	return binaryOpNames[k]
}

func (k BinaryOpKind) IsMultiplicative() bool { return k >= BOMul && k <= BORem }
func (k BinaryOpKind) IsAdditive() bool       { return k == BOAdd || k == BOSub }
func (k BinaryOpKind) IsShift() bool          { return k == BOShl || k == BOShr }
func (k BinaryOpKind) IsComparison() bool     { return k >= BOLT && k <= BONE }
func (k BinaryOpKind) IsBitwise() bool        { return k >= BOAnd && k <= BOOr }
func (k BinaryOpKind) IsLogical() bool        { return k == BOLAnd || k == BOLOr }
func (k BinaryOpKind) IsAssignment() bool     { return k >= BOAssign && k <= BOOrAssign }

// compoundBases maps each compound assignment onto the operator it applies.
var compoundBases = map[BinaryOpKind]BinaryOpKind{
	BOMulAssign: BOMul,
	BODivAssign: BODiv,
	BORemAssign: BORem,
	BOAddAssign: BOAdd,
	BOSubAssign: BOSub,
	BOShlAssign: BOShl,
	BOShrAssign: BOShr,
	BOAndAssign: BOAnd,
	BOXorAssign: BOXor,
	BOOrAssign:  BOOr,
}

// CompoundBase returns the operator applied by a compound assignment.  The
// boolean is false for plain assignment and for non-assignment operators.
func (k BinaryOpKind) CompoundBase() (BinaryOpKind, bool) {
	base, ok := compoundBases[k]
	return base, ok
}

// BinaryOpFromName looks up a binary operator by its spelling.
func BinaryOpFromName(name string) (BinaryOpKind, bool) {
	for k, n := range binaryOpNames {
		if n == name {
			return BinaryOpKind(k), true
		}
	}

	return 0, false
}
