package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. Each phase
// depends on state produced by its predecessors, so there is no parallelism
// and a fatal error halts the run immediately, with no cleanup of resources
// already created.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting deployment with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Printf("[%s] starting", name)

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(phaseStart).Round(time.Millisecond))
	}

	if n := len(ctx.State.Warnings); n > 0 {
		ctx.Observer.Printf("Deployment completed in %v with %d warning(s)", time.Since(start).Round(time.Millisecond), n)
	} else {
		ctx.Observer.Printf("Deployment completed in %v", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
