package materialize

// Progress receives the total once and one Advance per processed file
type Progress interface {
	Total(n int)
	Advance(path string)
}

type noProgress struct{}

func (noProgress) Total(int)      {}
func (noProgress) Advance(string) {}

// ProgressFunc is called with (done, total) after every change
type ProgressFunc func(done, total int)

func (f ProgressFunc) Progress() Progress {
	return &counter{f: f}
}

type counter struct {
	f     ProgressFunc
	done  int
	total int
}

func (c *counter) Total(n int) {
	c.total = n
	c.f(0, n)
}

func (c *counter) Advance(string) {
	c.done++
	c.f(c.done, c.total)
}
