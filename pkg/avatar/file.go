package avatar

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a selected image file as seen by the editor: its declared type,
// its size and a way to read it.
type File struct {
	Name string
	Type string // MIME type, e.g. image/png
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileFromBytes wraps in-memory data. The type is sniffed from the content,
// falling back to the name's extension.
func FileFromBytes(name string, data []byte) *File {
	return &File{
		Name: name,
		Type: detectType(name, data),
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileFromPath describes a file on disk without reading it fully.
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	f.Close()

	return &File{
		Name: filepath.Base(path),
		Type: detectType(path, head[:n]),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// ReadFile reads at most limit+1 bytes from r so oversized input is still
// reported with a size above the limit. limit <= 0 reads everything.
func ReadFile(name string, r io.Reader, limit int64) (*File, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return FileFromBytes(name, data), nil
}

func detectType(name string, head []byte) string {
	if len(head) > 0 {
		if t := http.DetectContentType(head); strings.HasPrefix(t, "image/") {
			return t
		}
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// typeAllowed compares MIME types ignoring case and parameters.
func typeAllowed(typ string, allowed []string) bool {
	base, _, err := mime.ParseMediaType(typ)
	if err != nil {
		base = strings.ToLower(strings.TrimSpace(typ))
	}
	for _, a := range allowed {
		if strings.EqualFold(base, a) {
			return true
		}
	}
	return false
}
