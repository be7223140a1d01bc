package substream

// Reporter observes the progress of a run. Parallel runs call OnSubstream
// from several goroutines and out of order.
type Reporter interface {
	OnStart(count int, distance uint64)
	OnSubstream(index int)
	OnComplete(count int)
}

// NopReporter ignores all progress.
type NopReporter struct{}

func (NopReporter) OnStart(int, uint64) {}
func (NopReporter) OnSubstream(int)     {}
func (NopReporter) OnComplete(int)      {}
