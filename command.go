package arbor

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// Command is a single transform mutation. Each value is executed once.
type Command interface {
	Execute()
}

// Invoker runs commands. It is the seam for history or logging.
type Invoker interface {
	Execute(cmd Command)
}

// CommandInvoker executes commands synchronously. When Logger is set every
// command is logged at debug level after it runs.
type CommandInvoker struct {
	Logger *slog.Logger
}

// Execute runs cmd immediately.
func (inv *CommandInvoker) Execute(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Execute()
	if inv != nil && inv.Logger != nil {
		inv.Logger.Debug("command executed", "command", cmd)
	}
}

// --- Commands ---

// RotateCommand turns Target by Angle degrees around its local up axis.
type RotateCommand struct {
	Target *Node
	Angle  float64
}

func (c RotateCommand) Execute() {
	if !targetAlive(c.Target) {
		return
	}
	c.Target.Rotate(Up, c.Angle)
}

func (c RotateCommand) String() string {
	return fmt.Sprintf("rotate %s by %.3f°", targetName(c.Target), c.Angle)
}

// ScaleCommand multiplies Target's local scale component-wise by Factor.
type ScaleCommand struct {
	Target *Node
	Factor mgl64.Vec3
}

func (c ScaleCommand) Execute() {
	if !targetAlive(c.Target) {
		return
	}
	c.Target.SetScale(vecMul(c.Target.Scale, c.Factor))
}

func (c ScaleCommand) String() string {
	return fmt.Sprintf("scale %s by %v", targetName(c.Target), c.Factor)
}

// SetScaleCommand replaces Target's local scale.
type SetScaleCommand struct {
	Target *Node
	Scale  mgl64.Vec3
}

func (c SetScaleCommand) Execute() {
	if !targetAlive(c.Target) {
		return
	}
	c.Target.SetScale(c.Scale)
}

func (c SetScaleCommand) String() string {
	return fmt.Sprintf("set scale of %s to %v", targetName(c.Target), c.Scale)
}

func targetAlive(n *Node) bool {
	return n != nil && !n.disposed
}

func targetName(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", n.Name)
}

// --- Controller ---

// Controller issues rotate and scale commands for one node through an
// invoker. Useful for non-gesture input such as keyboard shortcuts.
type Controller struct {
	Target  *Node
	Invoker Invoker
}

// Rotate turns the target by angle degrees around its up axis.
func (c Controller) Rotate(angle float64) {
	execute(c.Invoker, RotateCommand{Target: c.Target, Angle: angle})
}

// Scale multiplies the target's scale component-wise by factor.
func (c Controller) Scale(factor mgl64.Vec3) {
	execute(c.Invoker, ScaleCommand{Target: c.Target, Factor: factor})
}
