package split

type cleanupFunc func()

var nop cleanupFunc = func() {}

// cleanups runs registered funcs in reverse order of registration.
type cleanups struct {
	funcs []cleanupFunc
}

func (c *cleanups) add(f cleanupFunc) {
	c.funcs = append(c.funcs, f)
}

func (c *cleanups) do() {
	for _, f := range c.funcs {
		defer f()
	}
	c.funcs = nil
}
