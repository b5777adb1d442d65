package results

// Progress receives the number of hydrographs parsed so far. It is called synchronously from
// the parse loop and must return quickly.
type Progress interface {
	Report(count int)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(count int)

func (f ProgressFunc) Report(count int) {
	f(count)
}

var _ Progress = ProgressFunc(nil)
