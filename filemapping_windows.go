package pofile

import (
	"errors"
	"os"
)

func (m *fileMapping) tryMap(f *os.File) error {
	return errors.New("memory mapping is not supported")
}

func (m *fileMapping) closeMapping() error {
	return nil
}
