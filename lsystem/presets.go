package lsystem

import "github.com/chazu/penplot/vm"

// Koch returns the quadratic Koch curve: every segment of the given length
// is replaced by five, turning by angle degrees between them.
func Koch(length, angle int) *LSystem {
	walk := vm.MoveForward{Distance: length}
	left := vm.Turn{Degrees: -angle}
	right := vm.Turn{Degrees: angle}

	return &LSystem{
		Seed: []vm.Instruction{walk},
		Rules: Rules{
			walk: {walk, left, walk, right, walk, right, walk, left, walk},
		},
	}
}
