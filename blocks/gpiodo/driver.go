package gpiodo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// SysfsDriver drives GPIO pins through the Linux sysfs GPIO interface
// (/sys/class/gpio). It is the production Driver.
type SysfsDriver struct {
	basePath string
}

// NewSysfsDriver returns a driver rooted at /sys/class/gpio. basePath
// overrides the root for testing against a fake sysfs tree; pass "" for the
// real path.
func NewSysfsDriver(basePath string) *SysfsDriver {
	if basePath == "" {
		basePath = "/sys/class/gpio"
	}
	return &SysfsDriver{basePath: basePath}
}

type sysfsHandle struct {
	valuePath string
}

func (d *SysfsDriver) Open(pin int64) (any, error) {
	exportPath := filepath.Join(d.basePath, "export")
	if err := os.WriteFile(exportPath, []byte(strconv.FormatInt(pin, 10)), 0o200); err != nil && !os.IsExist(err) {
		return nil, fmt.Errorf("gpiodo: export pin %d: %w", pin, err)
	}
	pinDir := filepath.Join(d.basePath, fmt.Sprintf("gpio%d", pin))
	if err := os.WriteFile(filepath.Join(pinDir, "direction"), []byte("out"), 0o644); err != nil {
		return nil, fmt.Errorf("gpiodo: set direction for pin %d: %w", pin, err)
	}
	return &sysfsHandle{valuePath: filepath.Join(pinDir, "value")}, nil
}

func (d *SysfsDriver) Write(handle any, level bool) error {
	h, ok := handle.(*sysfsHandle)
	if !ok {
		return fmt.Errorf("gpiodo: write: unexpected handle type %T", handle)
	}
	v := []byte("0")
	if level {
		v = []byte("1")
	}
	return os.WriteFile(h.valuePath, v, 0o644)
}

func (d *SysfsDriver) Close(handle any) error {
	h, ok := handle.(*sysfsHandle)
	if !ok {
		return fmt.Errorf("gpiodo: close: unexpected handle type %T", handle)
	}
	_ = h
	return nil
}

// FakeDriver is an in-memory Driver for tests: it records every Write so
// assertions can check the exact sequence of levels driven to a pin.
type FakeDriver struct {
	mu      sync.Mutex
	writes  map[int64][]bool
	pins    map[any]int64
	nextRef int64
}

// NewFakeDriver returns an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{writes: make(map[int64][]bool), pins: make(map[any]int64)}
}

type fakeHandle struct{ ref int64 }

func (d *FakeDriver) Open(pin int64) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextRef++
	h := &fakeHandle{ref: d.nextRef}
	d.pins[h] = pin
	return h, nil
}

func (d *FakeDriver) Write(handle any, level bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	pin, ok := d.pins[handle]
	if !ok {
		return fmt.Errorf("gpiodo: write: unknown handle %v", handle)
	}
	d.writes[pin] = append(d.writes[pin], level)
	return nil
}

func (d *FakeDriver) Close(handle any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pins, handle)
	return nil
}

// Writes returns the sequence of levels written to pin, for test assertions.
func (d *FakeDriver) Writes(pin int64) []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]bool, len(d.writes[pin]))
	copy(out, d.writes[pin])
	return out
}
