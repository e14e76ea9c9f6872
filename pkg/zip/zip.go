package zip

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
)

// Entry is one file inside an EPK bundle.
type Entry struct {
	Name string
	Data []byte
}

// Archive packs the entries into a zip archive, skipping empty ones.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	written := 0
	for _, entry := range entries {
		if entry.Name == "" || len(entry.Data) == 0 {
			continue
		}
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", entry.Name, err)
		}
		written++
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	if written == 0 {
		return nil, errors.New("zip: nothing to archive")
	}
	return buf.Bytes(), nil
}
