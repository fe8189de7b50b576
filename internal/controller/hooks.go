package controller

import (
	"context"

	"voxdesk/internal/hook"
)

// Serve runs the hook worker until ctx is done. Jobs still queued then are
// dropped and later dispatches are refused.
func (c *Controller) Serve(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.stopHooks()
			return
		case job := <-c.hookCh:
			if err := c.opts.Hook.Run(ctx, job); err != nil {
				c.logger.Errorf("hook: %v", err)
			} else {
				c.stats.incHooksSent()
			}
			c.wg.Done()
		}
	}
}

func (c *Controller) stopHooks() {
	c.hookMu.Lock()
	c.hookStopped = true
	c.hookMu.Unlock()
	for {
		select {
		case <-c.hookCh:
			c.stats.incHooksDropped()
			c.wg.Done()
		default:
			return
		}
	}
}

func (c *Controller) dispatchHook(job hook.Job) {
	hk := c.opts.Hook
	if hk == nil || !hk.Enabled() {
		return
	}
	if !hk.Accepts(job.Text) {
		return
	}
	if !hk.ShouldRun() {
		c.logger.Debug("hook skipped (cooldown)")
		c.stats.incHooksSkipped()
		return
	}
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	if c.hookStopped {
		c.stats.incHooksDropped()
		c.logger.Warn("hook worker stopped, dropping job")
		return
	}
	c.logger.Infof("dispatching hook payload: %q", job.Text)
	c.wg.Add(1)
	select {
	case c.hookCh <- job:
	default:
		c.wg.Done()
		c.stats.incHooksDropped()
		c.logger.Warn("hook queue full, dropping job")
	}
}
