package idgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// CopyBody reads all of b to memory and returns the buffer plus an
// equivalent ReadCloser to put back in its place.
func CopyBody(b io.ReadCloser) (*bytes.Buffer, io.ReadCloser, error) {
	var buf bytes.Buffer
	if b == nil || b == http.NoBody {
		return &buf, http.NoBody, nil
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return &buf, b, err
	}
	if err := b.Close(); err != nil {
		return &buf, b, err
	}
	return &buf, io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

// ParseBody reads r fully.
func ParseBody(r io.Reader) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	return &buf, err
}

// LogS prints the stat as one JSON line on stdout.
func LogS(ctx context.Context, stat *Stat) {
	_, _ = fmt.Fprintf(os.Stdout, "%s\n", stat)
}
