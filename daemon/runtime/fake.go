package runtime

import (
	"context"
	"strings"
	"time"
)

// Fake is an in-memory Adapter used by unit tests across the daemon,
// grounded on the teacher's MockCommandExecutor (docker_test.go): callers
// seed canned responses keyed by container name, then exercise real
// production code against the fake instead of a live socket.
type Fake struct {
	AvailableFlag bool
	Containers    []Container
	Stats         map[string]RawStats
	Logs          map[string][]string
	Signals       []SignalCall
	RestartCalls  []string
}

// SignalCall records one SendSignal invocation for assertions.
type SignalCall struct {
	Name   string
	Signal string
}

// NewFake returns a ready-to-use fake marked available.
func NewFake() *Fake {
	return &Fake{
		AvailableFlag: true,
		Stats:         make(map[string]RawStats),
		Logs:          make(map[string][]string),
	}
}

func (f *Fake) Available() bool { return f.AvailableFlag }

func (f *Fake) ListContainers(_ context.Context, nameSubstring string) ([]Container, error) {
	if !f.AvailableFlag {
		return nil, ErrUnavailable
	}
	var out []Container
	for _, c := range f.Containers {
		if nameSubstring == "" || strings.Contains(c.Name, nameSubstring) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *Fake) FetchLogs(_ context.Context, name string, tail int) ([]string, error) {
	if !f.AvailableFlag {
		return nil, ErrUnavailable
	}
	lines := f.Logs[name]
	if tail > 0 && len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	return lines, nil
}

func (f *Fake) SampleStats(_ context.Context, name string) (RawStats, error) {
	if !f.AvailableFlag {
		return RawStats{}, ErrUnavailable
	}
	stats, ok := f.Stats[name]
	if !ok {
		return RawStats{}, ErrUnavailable
	}
	return stats, nil
}

func (f *Fake) SendSignal(_ context.Context, name, signal string) error {
	if !f.AvailableFlag {
		return ErrUnavailable
	}
	f.Signals = append(f.Signals, SignalCall{Name: name, Signal: signal})
	return nil
}

func (f *Fake) Restart(_ context.Context, name string, _ time.Duration) error {
	if !f.AvailableFlag {
		return ErrUnavailable
	}
	f.RestartCalls = append(f.RestartCalls, name)
	return nil
}

func (f *Fake) Exec(_ context.Context, _ string, argv []string) (string, error) {
	if !f.AvailableFlag {
		return "", ErrUnavailable
	}
	return strings.Join(argv, " "), nil
}

var _ Adapter = (*Fake)(nil)
