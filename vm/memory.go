package vm

import "fmt"

// Access is the kind of the last access to a memory cell.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

func (a Access) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Entry is a single memory cell.
type Entry struct {
	Value  int64
	Access Access // Last access, used by the viewer.
}

// Memory is a flat, zero-indexed array of cells that grows on demand:
// any access past the end extends it with zeroes up to and including
// the accessed address.
type Memory struct {
	entries []Entry
}

// NewMemory returns a memory loaded with a copy of program.
func NewMemory(program []int64) *Memory {
	m := &Memory{}
	m.Load(program)
	return m
}

// Load replaces the whole content of the memory.
func (m *Memory) Load(program []int64) {
	m.entries = make([]Entry, len(program))
	for i, elem := range program {
		m.entries[i].Value = elem
	}
}

// Len returns the current size of the memory.
func (m *Memory) Len() int { return len(m.entries) }

// MaxMemory is the number of cells a memory can grow to.
const MaxMemory = 1 << 24

// grow makes sure addr is addressable.
func (m *Memory) grow(addr int64) error {
	if addr < 0 {
		return fmt.Errorf("%w %d", ErrNegativeAddress, addr)
	}
	if addr >= MaxMemory {
		return fmt.Errorf("%w %d", ErrAddressTooLarge, addr)
	}
	if addr >= int64(len(m.entries)) {
		m.entries = append(m.entries, make([]Entry, addr-int64(len(m.entries))+1)...)
	}
	return nil
}

// Read returns the value at addr, growing the memory if needed.
func (m *Memory) Read(addr int64) (int64, error) {
	if err := m.grow(addr); err != nil {
		return 0, err
	}
	m.entries[addr].Access = AccessRead
	return m.entries[addr].Value, nil
}

// Write stores value at addr, growing the memory if needed.
func (m *Memory) Write(addr, value int64) error {
	if err := m.grow(addr); err != nil {
		return err
	}
	m.entries[addr] = Entry{Value: value, Access: AccessWrite}
	return nil
}

// Peek returns the value at addr without growing nor tracking.
// Out of range addresses read as 0.
func (m *Memory) Peek(addr int64) int64 {
	if addr < 0 || addr >= int64(len(m.entries)) {
		return 0
	}
	return m.entries[addr].Value
}

// Entry returns the cell at addr without growing nor tracking.
func (m *Memory) Entry(addr int64) Entry {
	if addr < 0 || addr >= int64(len(m.entries)) {
		return Entry{}
	}
	return m.entries[addr]
}

// Cells returns a copy of the memory values.
func (m *Memory) Cells() []int64 {
	out := make([]int64, len(m.entries))
	for i, elem := range m.entries {
		out[i] = elem.Value
	}
	return out
}

// ResetAccess clears the access tracking.
func (m *Memory) ResetAccess() {
	for i := range m.entries {
		m.entries[i].Access = AccessNone
	}
}
