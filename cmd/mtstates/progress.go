package main

import (
	"fmt"
	"io"
	"math/bits"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
)

// dotsTotal fits an 80-column terminal after the "Progress: " prefix.
const dotsTotal = 40

type progressStyles struct {
	label lipgloss.Style
	value lipgloss.Style
	check lipgloss.Style
	dim   lipgloss.Style
}

func newProgressStyles(r *lipgloss.Renderer) progressStyles {
	return progressStyles{
		label: r.NewStyle().Bold(true),
		value: r.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		check: r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		dim:   r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// ProgressMonitor prints a line of dots while substreams are generated,
// then the elapsed time. It implements substream.Reporter.
type ProgressMonitor struct {
	mu          sync.Mutex
	out         io.Writer
	clock       quartz.Clock
	styles      progressStyles
	total       int
	done        int
	dotsPrinted int
	startTime   time.Time
	elapsed     time.Duration
}

// NewProgressMonitor writes to out using the given color profile.
func NewProgressMonitor(out io.Writer, clock quartz.Clock, profile termenv.Profile) *ProgressMonitor {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)
	return &ProgressMonitor{
		out:    out,
		clock:  clock,
		styles: newProgressStyles(r),
	}
}

// OnStart prints the request and starts the clock.
func (m *ProgressMonitor) OnStart(count int, distance uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = count
	m.done = 0
	m.dotsPrinted = 0
	m.startTime = m.clock.Now()

	fmt.Fprintf(m.out, "%s %s\n", m.styles.label.Render("Substreams:"), m.styles.value.Render(fmt.Sprint(count)))
	fmt.Fprintf(m.out, "%s %s\n", m.styles.label.Render("Jump distance:"), m.styles.value.Render(formatDistance(distance)))
	fmt.Fprint(m.out, m.styles.label.Render("Progress:")+" ")
}

// OnSubstream advances the dots. Substreams may finish out of order.
func (m *ProgressMonitor) OnSubstream(int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.done++
	if m.total == 0 {
		return
	}
	target := min(m.done*dotsTotal/m.total, dotsTotal)
	for ; m.dotsPrinted < target; m.dotsPrinted++ {
		fmt.Fprint(m.out, m.styles.dim.Render("."))
	}
}

// OnComplete fills the line and prints the elapsed time.
func (m *ProgressMonitor) OnComplete(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ; m.dotsPrinted < dotsTotal; m.dotsPrinted++ {
		fmt.Fprint(m.out, m.styles.dim.Render("."))
	}

	m.elapsed = m.clock.Since(m.startTime)
	secs := m.elapsed.Seconds()
	rate := ""
	if secs > 0 {
		rate = fmt.Sprintf(" (%.1f/sec)", float64(count)/secs)
	}
	fmt.Fprintf(m.out, " %s %d states in %.1fs%s\n", m.styles.check.Render("✓"), count, secs, rate)
}

// Elapsed returns the duration of the last completed run.
func (m *ProgressMonitor) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed
}

// PrintSummary reports where the states were written.
func (m *ProgressMonitor) PrintSummary(path string, count int, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Fprintf(m.out, "%s %s (%d records, %d bytes)\n",
		m.styles.label.Render("Wrote"), m.styles.value.Render(path), count, bytes)
}

// formatDistance shows powers of two as exponents.
func formatDistance(d uint64) string {
	if d != 0 && d&(d-1) == 0 {
		return fmt.Sprintf("2^%d (%d)", bits.TrailingZeros64(d), d)
	}
	return fmt.Sprint(d)
}
