package vm

import (
	"errors"
	"fmt"

	"go.creack.net/intcode/op"
)

// Fatal errors. Any of them stops the owning machine.
var (
	ErrNegativeAddress  = errors.New("negative address")
	ErrAddressTooLarge  = errors.New("address past the memory limit")
	ErrInvalidWriteMode = errors.New("immediate mode used as write target")
	ErrMissingParameter = errors.New("parameter past end of memory")
	ErrMissingInput     = errors.New("input exhausted")
	ErrHalted           = errors.New("machine halted")

	ErrUnknownOpcode    = op.ErrUnknownOpcode
	ErrUnknownParamMode = op.ErrUnknownParamMode
)

// ErrDisconnected is returned by an Output whose receiver is gone.
// Not fatal: the machine logs it and keeps running.
var ErrDisconnected = errors.New("receiver disconnected")

// Fault is the error returned by a machine that stopped on a fatal error.
type Fault struct {
	ID   int   // Machine ID.
	IP   int64 // Instruction pointer of the failing instruction.
	Word int64 // Instruction word at IP.
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("machine %d: ip %d (word %d): %s", f.ID, f.IP, f.Word, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
