package wgpustein

import (
	"fmt"
	"sync"
	"time"

	"github.com/gekko3d/wgpustein/rt/core"
)

type logLine struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu    sync.Mutex
	debug bool
	lines []logLine
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	l.lines = append(l.lines, logLine{level: level, msg: fmt.Sprintf(format, args...)})
	l.mu.Unlock()
}

func (l *recordingLogger) DebugEnabled() bool                { return l.debug }
func (l *recordingLogger) SetDebug(enabled bool)             { l.debug = enabled }
func (l *recordingLogger) Debugf(format string, args ...any) { l.record("DEBUG", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.record("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.record("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.record("ERROR", format, args...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

type uniformWrite struct {
	offset uint64
	data   []byte
}

// fakeBackend records every call the render systems make and mirrors the
// real context's buffer bookkeeping.
type fakeBackend struct {
	capacity   core.InstanceCapacity
	capacities []int
	configured []WindowSize
	writes     []uniformWrite
	uploads    [][]byte
	uploadErrs []error
	draws      []uint32
	drawErrs   []error
	uniforms   [core.UniformsSize]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{capacity: core.InstanceCapacity{Records: core.DefaultInstanceCapacity}}
}

func (f *fakeBackend) ConfigureSurface(width, height uint32) error {
	f.configured = append(f.configured, WindowSize{Width: width, Height: height})
	return nil
}

func (f *fakeBackend) WriteUniforms(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > core.UniformsSize {
		return fmt.Errorf("fake uniforms: %w", core.ErrBufferOverflow)
	}
	copy(f.uniforms[offset:], data)
	f.writes = append(f.writes, uniformWrite{offset: offset, data: append([]byte(nil), data...)})
	return nil
}

// UploadInstances fails the next buffer reallocation with the first queued
// uploadErrs entry.
func (f *fakeBackend) UploadInstances(data []byte, count int) error {
	_, err := f.capacity.Grow(count, func(size uint64) error {
		if len(f.uploadErrs) > 0 {
			err := f.uploadErrs[0]
			f.uploadErrs = f.uploadErrs[1:]
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	f.capacities = append(f.capacities, f.capacity.Records)
	f.uploads = append(f.uploads, append([]byte(nil), data...))
	return nil
}

func (f *fakeBackend) InstanceCapacity() int {
	return f.capacity.Records
}

func (f *fakeBackend) DrawFrame(instanceCount uint32) error {
	f.draws = append(f.draws, instanceCount)
	if len(f.drawErrs) > 0 {
		err := f.drawErrs[0]
		f.drawErrs = f.drawErrs[1:]
		return err
	}
	return nil
}

func (f *fakeBackend) writesAt(offset uint64) []uniformWrite {
	var res []uniformWrite
	for _, w := range f.writes {
		if w.offset == offset {
			res = append(res, w)
		}
	}
	return res
}

// manualHost fires frames only when the test steps it.
type manualHost struct {
	title   string
	titles  []string
	pending func(now time.Time)
}

func (h *manualHost) RequestFrame(callback func(now time.Time)) { h.pending = callback }
func (h *manualHost) Title() string                             { return h.title }

func (h *manualHost) SetTitle(title string) {
	h.title = title
	h.titles = append(h.titles, title)
}

func (h *manualHost) step(now time.Time) bool {
	cb := h.pending
	if cb == nil {
		return false
	}
	h.pending = nil
	cb(now)
	return true
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func tickAt(d time.Duration) time.Time {
	return epoch.Add(d)
}
