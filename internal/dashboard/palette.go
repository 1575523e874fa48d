package dashboard

import "sync"

// PodColors is the rotation handed out to replicas in order of first sight.
var PodColors = []string{"blue", "green", "orange", "purple", "cyan", "magenta"}

// PodPalette assigns each replica a stable colour for the session.
type PodPalette struct {
	mu       sync.Mutex
	assigned map[string]string
}

func NewPodPalette() *PodPalette {
	return &PodPalette{assigned: make(map[string]string)}
}

func (p *PodPalette) Color(pod string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.assigned[pod]; ok {
		return c
	}
	c := PodColors[len(p.assigned)%len(PodColors)]
	p.assigned[pod] = c
	return c
}
