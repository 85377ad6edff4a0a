package provisioning

import (
	"fmt"

	"github.com/genieops/teamsgenie/internal/platform/azure"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the minimal logging surface phases depend on.
type Logger interface {
	Printf(format string, v ...interface{})
}

// StepPolicy decides how a step failure is handled. Failure policy lives
// here, in the sequencer, rather than being scattered across call sites.
type StepPolicy int

const (
	// PolicyFatal aborts the whole run on any error. No cleanup of
	// already-created resources is attempted.
	PolicyFatal StepPolicy = iota

	// PolicyWarnAlways downgrades any failure to a warning. Used where
	// manual completion through the portal is an accepted fallback.
	PolicyWarnAlways

	// PolicyWarnIfExists downgrades only already-exists failures; other
	// causes (notably permission errors) stay fatal.
	PolicyWarnIfExists
)

// Step is a single control-plane operation with its failure policy.
type Step struct {
	// Name identifies the step in logs and warnings.
	Name string

	// Policy selects the failure handling for this step.
	Policy StepPolicy

	// Remediation tells the operator how to finish the step manually
	// when its failure is downgraded to a warning.
	Remediation string

	// Run executes the step.
	Run func(ctx *Context) error
}

// RunSteps executes steps strictly in order, applying each step's failure
// policy. A fatal failure halts immediately; warnings are recorded on the
// state and execution continues.
func RunSteps(ctx *Context, phase string, steps []Step) error {
	for _, step := range steps {
		err := step.Run(ctx)
		if err == nil {
			continue
		}

		switch step.Policy {
		case PolicyWarnAlways:
			ctx.Warn(phase, step.Name, err, step.Remediation)
		case PolicyWarnIfExists:
			if azure.IsAlreadyExists(err) {
				ctx.Warn(phase, step.Name, err, step.Remediation)
				continue
			}
			return fatal(step.Name, err)
		default:
			return fatal(step.Name, err)
		}
	}
	return nil
}

// fatal wraps a halting step error, adding an operator hint when the cause
// is missing authorization.
func fatal(step string, err error) error {
	if azure.IsPermissionDenied(err) {
		return fmt.Errorf("%s: %w (the signed-in account needs Contributor on the subscription and rights to manage Entra ID applications)", step, err)
	}
	return fmt.Errorf("%s: %w", step, err)
}

// Warning records a tolerated step failure together with the manual
// follow-up the operator can perform instead.
type Warning struct {
	Phase       string
	Step        string
	Err         error
	Remediation string
}

func (w Warning) String() string {
	s := fmt.Sprintf("[%s] %s: %v", w.Phase, w.Step, w.Err)
	if w.Remediation != "" {
		s += "\n    manual fallback: " + w.Remediation
	}
	return s
}
