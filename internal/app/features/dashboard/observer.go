package dashboard

import "time"

// Observer receives dashboard load outcomes, typically for metrics.
type Observer interface {
	// ObserveLoad is called after a committed load with the number of
	// slices that failed.
	ObserveLoad(elapsed time.Duration, failedSlices int)
	// SliceFailed is called once per failed slice.
	SliceFailed(slice string)
	// LoadDiscarded is called when a load finishes after its session closed.
	LoadDiscarded()
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(time.Duration, int) {}
func (nopObserver) SliceFailed(string)             {}
func (nopObserver) LoadDiscarded()                 {}
