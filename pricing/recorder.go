package pricing

// Recorder receives resolution and refresh outcomes. metrics.Collectors
// implements it with Prometheus counters.
type Recorder interface {
	// ObserveResolution is called once per price lookup with the kind
	// ("monthly" or "daily") and the tier that produced the answer.
	ObserveResolution(kind, tier string)

	// ObserveRefresh is called after every cache refresh.
	ObserveRefresh(ok bool)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveResolution(string, string) {}
func (NopRecorder) ObserveRefresh(bool)              {}
