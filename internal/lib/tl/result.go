package tl

type Result struct {
	Task     *Task
	TaskList *TaskList

	Enabled    bool
	Skipped    bool
	SkipReason string
	Hide       bool
	Error      bool
	Err        error

	SubResults []*Result
}

// FirstError returns the first non-nil Err in depth-first order
func (r *Result) FirstError() error {
	if r == nil {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	for _, sub := range r.SubResults {
		if err := sub.FirstError(); err != nil {
			return err
		}
	}
	return nil
}
