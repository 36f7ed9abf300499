package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const ScanOff = 0

// ScanSchedule is a component that triggers scans at a regular interval.
type ScanSchedule struct {
	callback func() tea.Msg
	every    time.Duration
	interval time.Duration
	// generation invalidates ticks scheduled before the last restart.
	generation int
}

// NewScanSchedule creates a stopped ScanSchedule that scans every interval
// once started.
func NewScanSchedule(callback func() tea.Msg, every time.Duration) *ScanSchedule {
	return &ScanSchedule{
		callback: callback,
		every:    every,
	}
}

// Running reports whether scans are scheduled.
func (s *ScanSchedule) Running() bool {
	return s.interval != ScanOff
}

// Interval returns the interval used while running.
func (s *ScanSchedule) Interval() time.Duration {
	return s.every
}

// Toggle enables or disables the scan schedule.
func (s *ScanSchedule) Toggle() (bool, tea.Cmd) {
	if s.Running() {
		return false, s.SetSchedule(ScanOff)
	}
	return true, s.SetSchedule(s.every)
}

// Start runs the schedule at its configured interval.
func (s *ScanSchedule) Start() tea.Cmd {
	return s.SetSchedule(s.every)
}

// Stop pauses the schedule.
func (s *ScanSchedule) Stop() tea.Cmd {
	return s.SetSchedule(ScanOff)
}

// SetSchedule sets the scan interval.
func (s *ScanSchedule) SetSchedule(interval time.Duration) tea.Cmd {
	isStarting := s.interval == ScanOff && interval != ScanOff
	s.interval = interval
	if interval != ScanOff {
		s.every = interval
	}

	if isStarting {
		// We were off, now we are on. Start the scan loop.
		s.generation++
		return tea.Batch(s.callback, s.tick())
	}
	return nil
}

// Update handles messages for the ScanSchedule.
func (s *ScanSchedule) Update(msg tea.Msg) tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.generation != s.generation {
			return nil
		}
		// When we get a tick, call the callback and then schedule the next tick.
		return tea.Batch(s.callback, s.tick())
	}
	return nil
}

// internal message to trigger a tick
type tickMsg struct {
	generation int
}

func (s *ScanSchedule) tick() tea.Cmd {
	if s.interval == ScanOff {
		return nil
	}
	generation := s.generation
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}
