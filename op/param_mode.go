package op

// ParamMode is the addressing mode of a single parameter.
type ParamMode int

const (
	ModePosition  ParamMode = iota // Value is an address into memory.
	ModeImmediate                  // Value is used literally. Never a write target.
	ModeRelative                   // Value is an offset from the relative base.
)

func (pm ParamMode) String() string {
	switch pm {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	default:
		return "unknown param mode"
	}
}

// Valid reports whether the mode is one of the three known modes.
func (pm ParamMode) Valid() bool {
	return pm >= ModePosition && pm <= ModeRelative
}

// Writable reports whether the mode can designate a write destination.
func (pm ParamMode) Writable() bool {
	return pm == ModePosition || pm == ModeRelative
}
