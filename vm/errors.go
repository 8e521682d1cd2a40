package vm

import (
	"errors"
	"fmt"
)

// Control-flow contract violations. These indicate a malformed program and
// are never silently ignored.
var (
	// ErrEmptyCallStack is returned when RTRN executes with nothing to return to.
	ErrEmptyCallStack = errors.New("return with empty call stack")
	// ErrZeroRepeat is returned for LOOP with a count below 1.
	ErrZeroRepeat = errors.New("loop count must be at least 1")
	// ErrStepLimit is returned when a caller-imposed step budget runs out.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrCallStackLimit is returned when CALL or LOOP would push past a
	// caller-imposed call stack depth.
	ErrCallStackLimit = errors.New("call stack limit exceeded")
)

// RuntimeError reports a failure while executing the instruction at PC.
type RuntimeError struct {
	PC          int
	Instruction Instruction
	Err         error
}

func (e *RuntimeError) Error() string {
	if e.Instruction == nil {
		return fmt.Sprintf("pc %d: %v", e.PC, e.Err)
	}
	return fmt.Sprintf("pc %d (%s): %v", e.PC, e.Instruction, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
