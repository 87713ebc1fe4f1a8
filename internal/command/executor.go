package command

import (
	"context"

	"daybook/internal/logging"
)

// Executor serializes all command execution onto a single goroutine. The
// store is not safe for concurrent mutation; funnelling every command
// through one writer makes ordering explicit and locking unnecessary.
type Executor struct {
	router *Router
	jobs   chan job
	done   chan struct{}
}

type job struct {
	ctx    context.Context
	domain Domain
	action string
	params Params
	reply  chan CommandResult
}

// NewExecutor starts the executor loop over the given router.
func NewExecutor(router *Router) *Executor {
	ex := &Executor{
		router: router,
		jobs:   make(chan job),
		done:   make(chan struct{}),
	}
	go ex.loop()
	return ex
}

func (ex *Executor) loop() {
	defer close(ex.done)
	for j := range ex.jobs {
		result := ex.router.Route(j.ctx, j.domain, j.action, j.params)
		j.reply <- result
	}
}

// Submit queues one command and waits for its result. A context cancelled
// while the command is still queued returns a failure without executing it;
// once execution starts, the router's own cancellation rules apply.
func (ex *Executor) Submit(ctx context.Context, domain Domain, action string, params Params) CommandResult {
	j := job{
		ctx:    ctx,
		domain: domain,
		action: action,
		params: params,
		reply:  make(chan CommandResult, 1),
	}

	select {
	case ex.jobs <- j:
	case <-ctx.Done():
		logging.CommandsWarn("command %s/%s cancelled before execution", string(domain), action)
		return Failuref("cancelled before execution: %v", ctx.Err())
	case <-ex.done:
		return Failuref("executor is closed")
	}

	select {
	case result := <-j.reply:
		return result
	case <-ex.done:
		return Failuref("executor is closed")
	}
}

// Close stops the executor after the in-flight command, if any, completes.
// Callers must not Submit after Close.
func (ex *Executor) Close() {
	close(ex.jobs)
	<-ex.done
}
