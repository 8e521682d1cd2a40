package vm

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/tliron/commonlog"

	"github.com/chazu/penplot/canvas"
)

var log = commonlog.GetLogger("penplot.vm")

// Machine executes programs against a canvas.
type Machine struct {
	penX, penY float32
	heading    float32 // radians

	pc        int
	running   bool
	callStack []int

	canvas canvas.Canvas

	steps    int
	maxSteps int
	maxDepth int
	trace    bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithStepLimit stops execution with ErrStepLimit after n steps. Zero means
// no limit. The engine itself never bounds a run; this is for callers that
// must.
func WithStepLimit(n int) Option {
	return func(m *Machine) {
		m.maxSteps = n
	}
}

// WithCallStackLimit fails CALL and LOOP with ErrCallStackLimit when they
// would leave more than n pending return addresses. Zero means no limit.
// The check happens before LOOP pushes its entries, so a huge count costs
// nothing.
func WithCallStackLimit(n int) Option {
	return func(m *Machine) {
		m.maxDepth = n
	}
}

// WithTrace logs every executed instruction at debug level.
func WithTrace() Option {
	return func(m *Machine) {
		m.trace = true
	}
}

// NewMachine creates a machine that draws on c.
func NewMachine(c canvas.Canvas, opts ...Option) *Machine {
	m := &Machine{canvas: c}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pen returns the current pen position.
func (m *Machine) Pen() (x, y float32) {
	return m.penX, m.penY
}

// Heading returns the current heading in radians.
func (m *Machine) Heading() float32 {
	return m.heading
}

// Steps returns the number of instructions executed by the last run.
func (m *Machine) Steps() int {
	return m.steps
}

// CallDepth returns the number of pending return addresses.
func (m *Machine) CallDepth() int {
	return len(m.callStack)
}

// Execute runs p from address 0 until it halts or runs off the end.
// The pen starts at the origin facing 0 degrees with an empty call stack.
func (m *Machine) Execute(p Program) error {
	if err := p.Validate(); err != nil {
		return err
	}

	log.Debugf("executing %d instructions", len(p))
	return m.runFrom(p, 0)
}

// runFrom resets the machine state and runs p starting at pc.
func (m *Machine) runFrom(p Program, pc int) error {
	m.penX, m.penY = 0, 0
	m.heading = 0
	m.pc = pc
	m.running = true
	m.callStack = m.callStack[:0]
	m.steps = 0

	for m.running && m.pc >= 0 && m.pc < len(p) {
		if m.maxSteps > 0 && m.steps >= m.maxSteps {
			return &RuntimeError{PC: m.pc, Instruction: p[m.pc], Err: ErrStepLimit}
		}
		inst := p[m.pc]
		if m.trace {
			log.Debugf("%04d %-16s pen=(%.2f,%.2f) stack=%v", m.pc, inst, m.penX, m.penY, m.callStack)
		}
		next, err := m.step(inst)
		if err != nil {
			return &RuntimeError{PC: m.pc, Instruction: inst, Err: err}
		}
		m.pc = next
		m.steps++
	}
	m.running = false

	log.Debugf("halted after %d steps at pc %d", m.steps, m.pc)
	return nil
}

// step executes one instruction and returns the next program counter.
func (m *Machine) step(inst Instruction) (int, error) {
	next := m.pc + 1

	switch i := inst.(type) {
	case Noop, Comment:

	case Move:
		m.moveTo(float32(i.X), float32(i.Y))

	case MoveRel:
		m.moveTo(m.penX+float32(i.DX), m.penY+float32(i.DY))

	case MoveForward:
		d := float32(i.Distance)
		m.moveTo(m.penX+d*math32.Cos(m.heading), m.penY+d*math32.Sin(m.heading))

	case Face:
		m.heading = radians(i.Degrees)

	case Turn:
		m.heading += radians(i.Degrees)

	case SetColor:
		m.canvas.SetColor(i.Color)

	case Blot:
		m.canvas.Blot(m.penX, m.penY)

	case Goto:
		next = i.Addr

	case Jump:
		next = jumpTarget(m.pc, i.Offset)

	case Call:
		if err := m.reserve(1); err != nil {
			return 0, err
		}
		m.callStack = append(m.callStack, m.pc+1)
		next = i.Addr

	case Return:
		n := len(m.callStack)
		if n == 0 {
			return 0, ErrEmptyCallStack
		}
		next = m.callStack[n-1]
		m.callStack = m.callStack[:n-1]

	case Repeat:
		if i.Count < 1 {
			return 0, ErrZeroRepeat
		}
		if err := m.reserve(i.Count); err != nil {
			return 0, err
		}
		m.callStack = append(m.callStack, m.pc+1)
		for n := 1; n < i.Count; n++ {
			m.callStack = append(m.callStack, i.Addr)
		}
		next = i.Addr

	case Halt:
		m.running = false
	}

	return next, nil
}

// reserve checks that n more return addresses fit under the depth limit.
func (m *Machine) reserve(n int) error {
	if m.maxDepth > 0 && n > m.maxDepth-len(m.callStack) {
		return ErrCallStackLimit
	}
	return nil
}

func (m *Machine) moveTo(x, y float32) {
	m.canvas.MovePenTo(x, y)
	m.penX, m.penY = x, y
}

// jumpTarget computes pc+offset+1, clamped at address 0.
func jumpTarget(pc, offset int) int {
	next := pc + offset + 1
	if next < 0 {
		return 0
	}
	return next
}

func radians(deg int) float32 {
	return float32(deg) * math.Pi / 180
}
