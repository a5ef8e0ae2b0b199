package pipeline

import (
	"github.com/nguyentantai21042004/meeting-brief/internal/models"
)

const subscriberBuffer = 16

func (p *implPipeline) Snapshot() models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyLocked()
}

func (p *implPipeline) Subscribe() (<-chan models.Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSubID
	p.nextSubID++
	ch := make(chan models.Snapshot, subscriberBuffer)
	ch <- p.copyLocked()
	p.subscribers[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if c, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			close(c)
		}
	}
	return ch, cancel
}

func (p *implPipeline) copyLocked() models.Snapshot {
	s := p.snap
	if s.Summary != nil {
		summary := s.Summary.Clone()
		s.Summary = &summary
	}
	if s.Notice != nil {
		notice := *s.Notice
		s.Notice = &notice
	}
	return s
}

// broadcastLocked stamps the snapshot and offers it to every subscriber
// without blocking. A full buffer loses its oldest entry so the newest
// state always arrives. p.mu must be held.
func (p *implPipeline) broadcastLocked() {
	p.snap.UpdatedAt = p.now()
	if len(p.subscribers) == 0 {
		return
	}
	s := p.copyLocked()
	for _, ch := range p.subscribers {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func (p *implPipeline) noticeLocked(level models.NoticeLevel, msg string) {
	p.snap.Notice = &models.Notice{Level: level, Message: msg, At: p.now()}
}

func (p *implPipeline) notify(level models.NoticeLevel, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.noticeLocked(level, msg)
	p.broadcastLocked()
}
