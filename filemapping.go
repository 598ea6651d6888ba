package pofile

import (
	"io"
	"os"
	"runtime"
	"strings"
	"unicode/utf8"
)

type fileMapping struct {
	data []byte

	isMapped bool
}

func (m *fileMapping) Close() error {
	runtime.SetFinalizer(m, nil)
	if !m.isMapped {
		return nil
	}
	return m.closeMapping()
}

func openMapping(f *os.File) (*fileMapping, error) {
	m := new(fileMapping)

	err := m.tryMap(f)
	if err == nil {
		runtime.SetFinalizer(m, (*fileMapping).Close)
		return m, nil
	}
	// On mapping failure, fall back to reading the file into
	// memory directly.
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	m.data, err = io.ReadAll(f)
	return m, err
}

// ReadFile returns the content of a catalog file as UTF-8 text. A leading
// byte order mark is dropped and invalid byte sequences are replaced by
// U+FFFD.
func ReadFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	m, err := openMapping(f)
	if err != nil {
		return "", err
	}
	defer m.Close()

	// string() copies, so the mapping can go away after this.
	content := strings.TrimPrefix(string(m.data), "\ufeff")
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "\ufffd")
	}
	return content, nil
}
