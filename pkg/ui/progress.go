package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Progress renders a single-line progress bar for one pipeline phase.
type Progress struct {
	mu        sync.Mutex
	phase     string
	total     int
	completed int
	errors    int
	startTime time.Time
}

// NewProgress starts a progress display for a phase with a known total.
func NewProgress(phase string, total int) *Progress {
	p := &Progress{
		phase:     phase,
		total:     total,
		startTime: time.Now(),
	}
	p.print()
	return p
}

// Increment marks one unit of work as completed.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.print()
}

// Fail marks one unit of work as failed.
func (p *Progress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.errors++
	p.print()
}

// Done finishes the phase line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print()
	if !IsQuietMode() {
		fmt.Println()
	}
}

func (p *Progress) print() {
	if IsQuietMode() || p.total <= 0 {
		return
	}

	progress := float64(p.completed) / float64(p.total)
	if progress > 1 {
		progress = 1
	}
	barWidth := 20
	filled := int(progress * float64(barWidth))
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("\r%s [%s] %d/%d", Cyan(p.phase), bar, p.completed, p.total)
	if p.errors > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d failed", p.errors)))
	}
	fmt.Print(line)
}
