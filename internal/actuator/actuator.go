// Package actuator drives the chassis fan controller. The only real
// implementation shells out to ipmitool; the fan level is a raw byte the
// BMC maps onto PWM duty internally.
package actuator

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
)

const ErrApplyFailed = errors.ErrorCode("actuator_apply_failed")

// DefaultCommand is the raw IPMI request accepted by the target chassis;
// the fan level byte is appended per call.
var DefaultCommand = []string{"ipmitool", "raw", "0x3c", "0x30", "0x00", "0x00"}

// Actuator applies an absolute fan level. Implementations do not retry;
// the control loop re-asserts the level every cycle.
type Actuator interface {
	Apply(ctx context.Context, level int) error
}

// Runner executes an external command, injectable for tests.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type ipmi struct {
	run     Runner
	command []string
}

// NewIPMI returns an Actuator invoking the given command with the level
// appended as a decimal argument. A nil runner uses os/exec; an empty
// command falls back to DefaultCommand.
func NewIPMI(run Runner, command []string) Actuator {
	if run == nil {
		run = execRunner
	}
	if len(command) == 0 {
		command = DefaultCommand
	}

	return &ipmi{run: run, command: command}
}

func (a *ipmi) Apply(ctx context.Context, level int) error {
	errFactory := errors.New()

	args := make([]string, 0, len(a.command))
	args = append(args, a.command[1:]...)
	args = append(args, strconv.Itoa(level))

	if _, err := a.run(ctx, a.command[0], args...); err != nil {
		return errFactory.Wrap(ErrApplyFailed, err)
	}

	return nil
}

type noop struct{}

// Noop returns an Actuator that does nothing, used in monitor-only mode.
func Noop() Actuator {
	return noop{}
}

func (noop) Apply(_ context.Context, _ int) error {
	return nil
}
