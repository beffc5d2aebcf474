package ui

import "sync"

// ScanObserver shows corpus scan progress as a bar, then a spinner while
// the scanned files are graded. It satisfies corpus.Observer.
type ScanObserver struct {
	progress Progress

	mu      sync.Mutex
	bar     ProgressBar
	spinner Spinner
}

// NewScanObserver creates a ScanObserver drawing with p.
func NewScanObserver(p Progress) *ScanObserver {
	return &ScanObserver{progress: p}
}

// ScanStarted opens the progress bar.
func (o *ScanObserver) ScanStarted(total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bar = o.progress.Start("Scanning files", total)
}

// FileScanned advances the progress bar.
func (o *ScanObserver) FileScanned(string) {
	o.mu.Lock()
	bar := o.bar
	o.mu.Unlock()
	if bar != nil {
		bar.Increment(1)
	}
}

// ScanFinished completes the bar and starts the grading spinner.
func (o *ScanObserver) ScanFinished() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.bar != nil {
		o.bar.Done()
		o.bar = nil
	}
	o.spinner = o.progress.Spinner("Evaluating rules")
}

// Close stops any indicator still running. It is safe to call more than once.
func (o *ScanObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.bar != nil {
		o.bar.Done()
		o.bar = nil
	}
	if o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}
}
