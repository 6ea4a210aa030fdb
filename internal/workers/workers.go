package workers

// Workers aggregates background workers so the application can start them in
// one call.
type Workers struct {
	workers []Worker
}

// New groups the given workers.
func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
