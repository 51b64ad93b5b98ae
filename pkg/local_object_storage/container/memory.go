package container

import (
	"sync"
)

// Memory is a Container kept in RAM. It is lost on Close.
type Memory struct {
	mtx      sync.RWMutex
	opened   bool
	readOnly bool
	data     []byte
}

// TypeMemory is the type of Memory container.
const TypeMemory = "memory"

// NewMemory returns new empty in-memory container.
func NewMemory() *Memory {
	return new(Memory)
}

// Type implements Container.
func (m *Memory) Type() string {
	return TypeMemory
}

// Path implements Container.
func (m *Memory) Path() string {
	return ""
}

// Open implements Container.
func (m *Memory) Open(readOnly bool) error {
	m.mtx.Lock()
	m.opened = true
	m.readOnly = readOnly
	m.mtx.Unlock()
	return nil
}

// Close implements Container.
func (m *Memory) Close() error {
	m.mtx.Lock()
	m.opened = false
	m.data = nil
	m.mtx.Unlock()
	return nil
}

func (m *Memory) check(write bool) error {
	if !m.opened {
		return ErrNotOpened
	}
	if write && m.readOnly {
		return ErrReadOnly
	}
	return nil
}

// WriteAt implements Container.
func (m *Memory) WriteAt(data []byte, off uint64) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err := m.check(true); err != nil {
		return err
	}

	m.grow(off + uint64(len(data)))
	copy(m.data[off:], data)

	return nil
}

// grow extends data up to the given size with zeroes.
func (m *Memory) grow(size uint64) {
	if size <= uint64(len(m.data)) {
		return
	}

	if size <= uint64(cap(m.data)) {
		m.data = m.data[:size]
		return
	}

	grown := make([]byte, size, size+size/4)
	copy(grown, m.data)
	m.data = grown
}

// ReadAt implements Container.
func (m *Memory) ReadAt(off, n uint64) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if err := m.check(false); err != nil {
		return nil, err
	}

	if err := checkRead(off, n, uint64(len(m.data))); err != nil {
		return nil, err
	}

	res := make([]byte, n)
	copy(res, m.data[off:])

	return res, nil
}

// ZeroFill implements Container.
func (m *Memory) ZeroFill(off, n uint64) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err := m.check(true); err != nil {
		return err
	}

	m.grow(off + n)
	clear(m.data[off : off+n])

	return nil
}

// Size implements Container.
func (m *Memory) Size() (uint64, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if err := m.check(false); err != nil {
		return 0, err
	}

	return uint64(len(m.data)), nil
}

// Truncate implements Container.
func (m *Memory) Truncate(size uint64) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err := m.check(true); err != nil {
		return err
	}

	if size < uint64(len(m.data)) {
		clear(m.data[size:])
		m.data = m.data[:size]
		return nil
	}

	m.grow(size)

	return nil
}

// Writable implements Container.
func (m *Memory) Writable() bool {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.check(true) == nil
}
