// Package vm implements the penplot instruction set and the interpreter that
// runs programs against a canvas.
//
// This package contains:
//   - Instruction values, one type per mnemonic
//   - Program validation, cloning and disassembly
//   - The program-counter interpreter (Machine)
//
// Subroutine calls and loops use an explicit call stack of return addresses
// instead of Go recursion, so deep or cyclic programs cannot overflow the Go
// stack. A Machine is single-threaded and owns its canvas for one run.
package vm
