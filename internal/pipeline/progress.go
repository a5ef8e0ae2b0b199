package pipeline

import "time"

// Progress milestones.
const (
	ProgressStarted  = 10
	ProgressFinished = 100
)

func (p *implPipeline) setProgress(pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap.Progress = pct
	p.broadcastLocked()
}

// restartProgressLocked begins a new progress sequence and invalidates any
// pending reset. p.mu must be held.
func (p *implPipeline) restartProgressLocked(pct int) {
	p.progressGen++
	p.snap.Progress = pct
}

// scheduleProgressReset drops progress to zero after resetDelay unless a
// newer run or a clear happened in between.
func (p *implPipeline) scheduleProgressReset() {
	p.mu.Lock()
	gen := p.progressGen
	p.mu.Unlock()

	time.AfterFunc(p.resetDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.progressGen != gen {
			return
		}
		p.snap.Progress = 0
		p.broadcastLocked()
	})
}
