// Package op holds the Intcode instruction set definition.
package op

const (
	MaxParams = 3   // Widest instruction (add, mul, lt, eq).
	ModeBase  = 100 // Opcode is the instruction word modulo ModeBase.
)

// Opcode values.
const (
	CodeAdd        int64 = 1
	CodeMul        int64 = 2
	CodeInput      int64 = 3
	CodeOutput     int64 = 4
	CodeJumpTrue   int64 = 5
	CodeJumpFalse  int64 = 6
	CodeLessThan   int64 = 7
	CodeEquals     int64 = 8
	CodeAdjustBase int64 = 9
	CodeHalt       int64 = 99
)

// OpCode is the definition of instructions.
type OpCode struct {
	Name    string
	Code    int64
	Params  int    // Number of parameters following the instruction word.
	Write   int    // Index of the write destination parameter, -1 if none.
	Comment string // Human description, shown by the viewer.
}

// Size returns the number of cells the instruction occupies.
func (oc OpCode) Size() int { return oc.Params + 1 }

// Writes reports whether the parameter at index i is a write destination.
func (oc OpCode) Writes(i int) bool { return oc.Write >= 0 && oc.Write == i }

// Jumps reports whether the instruction may override the instruction pointer.
func (oc OpCode) Jumps() bool { return oc.Code == CodeJumpTrue || oc.Code == CodeJumpFalse }

var OpCodeTable = map[int64]OpCode{
	CodeAdd:        {"add", CodeAdd, 3, 2, "add      a,b,dst   a+b -> dst"},
	CodeMul:        {"mul", CodeMul, 3, 2, "multiply a,b,dst   a*b -> dst"},
	CodeInput:      {"in", CodeInput, 1, 0, "input    dst       next input -> dst"},
	CodeOutput:     {"out", CodeOutput, 1, -1, "output   a         emit a"},
	CodeJumpTrue:   {"jnz", CodeJumpTrue, 2, -1, "jump if true  cond,target"},
	CodeJumpFalse:  {"jz", CodeJumpFalse, 2, -1, "jump if false cond,target"},
	CodeLessThan:   {"lt", CodeLessThan, 3, 2, "less than a,b,dst  a<b -> dst"},
	CodeEquals:     {"eq", CodeEquals, 3, 2, "equals   a,b,dst   a==b -> dst"},
	CodeAdjustBase: {"arb", CodeAdjustBase, 1, -1, "adjust relative base by a"},
	CodeHalt:       {"hlt", CodeHalt, 0, -1, "halt"},
}

// Lookup finds an opcode by mnemonic.
func Lookup(name string) (OpCode, bool) {
	for _, elem := range OpCodeTable {
		if elem.Name == name {
			return elem, true
		}
	}
	return OpCode{}, false
}
