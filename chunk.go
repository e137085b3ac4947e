package scripthost

import "io"

// ChunkReader hands a borrowed buffer to the compiler as one opaque chunk.
// The first poll delivers the whole buffer; every later poll reports end of
// input. It never re-delivers data and never splits the chunk.
type ChunkReader struct {
	buf       []byte
	delivered bool

	// unread tail of the delivered chunk, for callers pulling through Read
	pending []byte
}

// NewChunkReader returns a reader over buf. The buffer is not copied.
func NewChunkReader(buf []byte) *ChunkReader {
	return &ChunkReader{buf: buf}
}

// Next returns the entire buffer on the first call and (nil, false) on every
// call after that, including when the buffer is empty.
func (c *ChunkReader) Next() ([]byte, bool) {
	if c.delivered {
		return nil, false
	}
	c.delivered = true
	return c.buf, true
}

// Delivered reports whether the chunk has been handed out.
func (c *ChunkReader) Delivered() bool {
	return c.delivered
}

// Read implements io.Reader for compilers that pull input through a fixed
// size buffer. The chunk is polled once; its bytes are then copied out
// across as many reads as p requires.
func (c *ChunkReader) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		chunk, ok := c.Next()
		if !ok || len(chunk) == 0 {
			return 0, io.EOF
		}
		c.pending = chunk
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}
