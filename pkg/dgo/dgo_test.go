// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/LeeDigitalWorks/objfiledb/pkg/compression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

// streamBuilder writes the compressed framing by hand so tests can place
// padding and odd chunk sizes exactly.
type streamBuilder struct {
	buf bytes.Buffer
}

func newStream(size int) *streamBuilder {
	s := &streamBuilder{}
	s.buf.WriteString(Magic)
	s.word(uint32(size))
	return s
}

func (s *streamBuilder) word(w uint32) *streamBuilder {
	s.buf.Write(binary.LittleEndian.AppendUint32(nil, w))
	return s
}

func (s *streamBuilder) padding(words int) *streamBuilder {
	for i := 0; i < words; i++ {
		s.word(0)
	}
	return s
}

func (s *streamBuilder) chunk(size uint32, payload []byte) *streamBuilder {
	s.word(size)
	s.buf.Write(payload)
	for s.buf.Len()%4 != 0 {
		s.buf.WriteByte(0)
	}
	return s
}

func (s *streamBuilder) lzo(t *testing.T, plain []byte) *streamBuilder {
	t.Helper()
	packed, err := compression.Compress(compression.LZO, plain)
	require.NoError(t, err)
	require.Less(t, len(packed), MaxChunkSize)
	return s.chunk(uint32(len(packed)), packed)
}

func (s *streamBuilder) bytes() []byte {
	return s.buf.Bytes()
}

func TestIsCompressed(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCompressed([]byte("oZlB\x00\x00\x00\x00")))
	assert.False(t, IsCompressed([]byte("oZl")))
	assert.False(t, IsCompressed([]byte("\x02\x00\x00\x00GAME.DGO")))
}

func TestDecompressMixedChunks(t *testing.T) {
	t.Parallel()

	raw := randomBytes(t, MaxChunkSize)
	oversized := randomBytes(t, MaxChunkSize)
	nearMax := randomBytes(t, 0x7000)
	text := bytes.Repeat([]byte("(set! *level* #f) "), 300)
	tail := []byte{1, 2, 3}

	var want []byte
	want = append(want, raw...)
	want = append(want, nearMax...)
	want = append(want, oversized...)
	want = append(want, text...)
	want = append(want, tail...)

	stream := newStream(len(want)).
		chunk(MaxChunkSize, raw).
		padding(2).
		lzo(t, nearMax).
		// Sizes above the maximum still copy exactly MaxChunkSize bytes.
		chunk(MaxChunkSize+0x1004, oversized).
		padding(1).
		lzo(t, text).
		padding(3).
		lzo(t, tail).
		bytes()

	got, err := Decompress(stream)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecompressStopsAtDeclaredSize(t *testing.T) {
	t.Parallel()

	plain := bytes.Repeat([]byte{0xab, 0xcd}, 100)

	// Nothing follows the last chunk. Reading another header would fail.
	stream := newStream(len(plain)).lzo(t, plain).bytes()
	got, err := Decompress(stream)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	// Trailing data after the declared size is never looked at.
	withJunk := append(append([]byte{}, stream...), 0xff, 0xff, 0xff, 0x7f, 0x01)
	got, err = Decompress(withJunk)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestDecompressFailures(t *testing.T) {
	t.Parallel()

	plain := bytes.Repeat([]byte("abcdefgh"), 64)
	packed, err := compression.Compress(compression.LZO, plain)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stream []byte
	}{
		{"no magic", []byte("xxxx\x10\x00\x00\x00")},
		{"no size", []byte(Magic + "\x10\x00")},
		{"ends in padding", newStream(16).padding(3).bytes()},
		{"short of declared size", newStream(len(plain) + 1).chunk(uint32(len(packed)), packed).bytes()},
		{"chunk past end", newStream(len(plain)).word(uint32(len(packed) + 64)).bytes()},
		{"raw chunk past end", newStream(MaxChunkSize).word(MaxChunkSize).word(1).bytes()},
		{"overshoots declared size", newStream(len(plain) - 1).chunk(uint32(len(packed)), packed).bytes()},
		{"declared size beyond input", newStream(0xffffffff).bytes()},
		{"truncated lzo block", newStream(len(plain)).chunk(uint32(len(packed)/2), packed[:len(packed)/2]).bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.stream)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecodeFailure)
			assert.NotErrorIs(t, err, ErrStructuralCorruption)
		})
	}
}

// Not parallel: reads process-wide allocation counters.
func TestDecompressPreallocationFollowsInput(t *testing.T) {
	stream := newStream(0xffffffff).bytes()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Decompress(stream)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrDecodeFailure)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestCompressStreamRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []int{1, MaxChunkSize - 1, MaxChunkSize, 3*MaxChunkSize + 17}
	for _, n := range sizes {
		body := randomBytes(t, n)
		copy(body, bytes.Repeat([]byte{0}, n/2))

		stream, err := CompressStream(body)
		require.NoError(t, err)
		require.True(t, IsCompressed(stream))

		got, err := Decompress(stream)
		require.NoError(t, err)
		assert.Equal(t, body, got, "size %d", n)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Name: "foo", Data: []byte("first foo")},
		{Name: "bar-ag", Data: randomBytes(t, 100)},
		{Name: "foo", Data: []byte("second foo!")},
		{Name: "empty", Data: nil},
	}
	plain, err := Encode("LEVEL.DGO", entries)
	require.NoError(t, err)

	compressed, err := CompressStream(plain)
	require.NoError(t, err)

	for _, data := range [][]byte{plain, compressed} {
		c, err := Decode(data, "LEVEL.DGO")
		require.NoError(t, err)
		assert.Equal(t, IsCompressed(data), c.Compressed)
		assert.Equal(t, len(data), c.RawSize)
		require.Len(t, c.Entries, len(entries))

		accounted := HeaderSize
		for i, e := range c.Entries {
			assert.Equal(t, entries[i].Name, e.Name)
			assert.Equal(t, len(entries[i].Data), len(e.Data))
			if len(entries[i].Data) > 0 {
				assert.Equal(t, entries[i].Data, e.Data)
			}
			assert.Equal(t, accounted, e.Offset)
			accounted += HeaderSize + len(e.Data)
		}
		assert.Equal(t, c.BodySize, accounted)
	}
}

func TestEncodeRejectsLongNames(t *testing.T) {
	t.Parallel()

	long := string(bytes.Repeat([]byte("a"), NameFieldSize))
	_, err := Encode(long, nil)
	assert.Error(t, err)
	_, err = Encode("OK.DGO", []Entry{{Name: long}})
	assert.Error(t, err)

	_, err = Encode(long[:NameFieldSize-1], nil)
	assert.NoError(t, err)
}

func TestDecodeStructuralCorruption(t *testing.T) {
	t.Parallel()

	valid, err := Encode("GAME.DGO", []Entry{
		{Name: "a", Data: []byte("0123456789")},
		{Name: "b", Data: []byte("abcdef")},
	})
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte{}, valid...))
	}

	tests := []struct {
		name   string
		data   []byte
		offset int
	}{
		{
			name:   "header name mismatch",
			data:   valid,
			offset: 4,
		},
		{
			name: "garbage after container name terminator",
			data: mutate(func(b []byte) []byte {
				b[4+len("GAME.DGO")+3] = 'x'
				return b
			}),
			offset: 4 + len("GAME.DGO") + 3,
		},
		{
			name: "garbage after entry name terminator",
			data: mutate(func(b []byte) []byte {
				b[HeaderSize+4+NameFieldSize-1] = 1
				return b
			}),
			offset: HeaderSize + 4 + NameFieldSize - 1,
		},
		{
			name: "unterminated name",
			data: mutate(func(b []byte) []byte {
				copy(b[HeaderSize+4:], bytes.Repeat([]byte("n"), NameFieldSize))
				return b
			}),
			offset: HeaderSize + 4,
		},
		{
			name: "truncated final entry",
			data: mutate(func(b []byte) []byte {
				return b[:len(b)-1]
			}),
			offset: 2*HeaderSize + 10,
		},
		{
			name: "leftover bytes",
			data: mutate(func(b []byte) []byte {
				return append(b, 0, 0, 0, 0)
			}),
			offset: len(valid),
		},
		{
			name: "entry count too large",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b, 3)
				return b
			}),
			offset: 0,
		},
		{
			name: "entry count exceeds body",
			data: mutate(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b, 0xffffffff)
				return b
			}),
			offset: 0,
		},
		{
			name:   "empty body",
			data:   nil,
			offset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "GAME.DGO"
			if tt.name == "header name mismatch" {
				name = "OTHER.DGO"
			}
			_, err := Decode(tt.data, name)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructuralCorruption)

			var derr *Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, name, derr.Container)
			assert.Equal(t, tt.offset, derr.Offset)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestDecodeCompressedFailureNamesContainer(t *testing.T) {
	t.Parallel()

	_, err := Decode(newStream(64).padding(1).bytes(), "ART.DGO")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecodeFailure)
	assert.Contains(t, err.Error(), "ART.DGO")
}
