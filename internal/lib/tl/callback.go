package tl

import "context"

type TaskCallback interface {
	// Context is canceled when the user interrupts the runner
	Context() context.Context
	Hide()
	Skip(reason string)
	// Progress shows a progress bar under the task title
	Progress(done, total int)
	AddSubTask(tasks ...*Task)
}
