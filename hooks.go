package xpong

// Hook runs inside the interrupt context, after the console state has been updated
type Hook func(console *Console)

// AddBeforeTickHook adds a hook that runs before every handled tick
func (c *Console) AddBeforeTickHook(h Hook) int {
	c.beforeTickHooks = append(c.beforeTickHooks, h)

	return len(c.beforeTickHooks)
}

// AddAfterTickHook adds a hook that runs after every handled tick
func (c *Console) AddAfterTickHook(h Hook) int {
	c.afterTickHooks = append(c.afterTickHooks, h)

	return len(c.afterTickHooks)
}

// AddErrorHook adds a hook that runs when flipping a frame fails
func (c *Console) AddErrorHook(h Hook) int {
	c.errorHooks = append(c.errorHooks, h)

	return len(c.errorHooks)
}

func (c *Console) runBeforeTickHooks() {
	c.runHooks(c.beforeTickHooks)
}

func (c *Console) runAfterTickHooks() {
	c.runHooks(c.afterTickHooks)
}

func (c *Console) runErrorHooks() {
	c.runHooks(c.errorHooks)
}

func (c *Console) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(c)
	}
}
