package simplefiles

import (
	"bytes"
	"errors"
	"io"
)

// ChunkSize is the buffer size used when draining object streams.
const ChunkSize = 1024

// ReadChunked drains r into memory ChunkSize bytes at a time.
func ReadChunked(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return out.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
