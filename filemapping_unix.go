//go:build !windows

package pofile

import (
	"fmt"
	"os"
	"syscall"
)

func (m *fileMapping) tryMap(f *os.File) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	// Pipes and devices report no meaningful size.
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%q is not a regular file", fi.Name())
	}

	size := fi.Size()
	if size == 0 {
		return nil
	}
	if size != int64(int(size)) {
		return fmt.Errorf("catalog %q is too large to map", fi.Name())
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return err
	}
	m.data = data
	m.isMapped = true
	return nil
}

func (m *fileMapping) closeMapping() error {
	return syscall.Munmap(m.data)
}
