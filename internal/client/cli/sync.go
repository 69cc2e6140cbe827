package cli

import "context"

// Sync runs one pass right away and reports the outcome, unlike the
// background scheduler which runs passes silently after mutations.
func (a *App) Sync(ctx context.Context, force bool) error {
	a.mu.Lock()
	engine := a.engine
	a.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, a.config.SyncTimeout)
	defer cancel()

	outcome, err := engine.Run(runCtx, force)
	printlnFn(outcome.Message)
	return err
}
