// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Decode parses a container. baseName is the container's file name without
// directory; the name stored in the container header must match it.
func Decode(data []byte, baseName string) (*Container, error) {
	c, err := decode(data, baseName)
	if err != nil {
		var derr *Error
		if errors.As(err, &derr) && derr.Container == "" {
			derr.Container = baseName
		}
		return nil, err
	}
	return c, nil
}

func decode(data []byte, baseName string) (*Container, error) {
	c := &Container{
		Name:    baseName,
		RawSize: len(data),
	}

	body := data
	if IsCompressed(data) {
		plain, err := Decompress(data)
		if err != nil {
			return nil, err
		}
		body = plain
		c.Compressed = true
	}
	c.BodySize = len(body)

	count, name, err := readHeader(body, 0)
	if err != nil {
		return nil, err
	}
	if name != baseName {
		return nil, corruption(4, "", "header name %q does not match container name %q", name, baseName)
	}

	// Every entry needs at least its header.
	if maxEntries := len(body)/HeaderSize - 1; int64(count) > int64(maxEntries) {
		return nil, corruption(0, "", "entry count %d cannot fit in 0x%x bytes", count, len(body))
	}

	cursor := HeaderSize
	c.Entries = make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		size, entryName, err := readHeader(body, cursor)
		if err != nil {
			return nil, err
		}
		start := cursor + HeaderSize
		if remaining := len(body) - start; int64(size) > int64(remaining) {
			return nil, corruption(cursor, entryName,
				"declared size 0x%x exceeds remaining 0x%x bytes (entry %d of %d)", size, remaining, i, count)
		}
		end := start + int(size)
		c.Entries = append(c.Entries, Entry{
			Name:   entryName,
			Offset: cursor,
			Data:   body[start:end:end],
		})
		cursor = end
	}

	if leftover := len(body) - cursor; leftover != 0 {
		return nil, corruption(cursor, "", "0x%x bytes left over after %d entries", leftover, count)
	}

	return c, nil
}

// readHeader reads a u32 + char[60] header at off.
func readHeader(body []byte, off int) (uint32, string, error) {
	if off+HeaderSize > len(body) {
		return 0, "", corruption(off, "", "header needs 0x%x bytes, 0x%x remain", HeaderSize, len(body)-off)
	}
	size := binary.LittleEndian.Uint32(body[off:])
	field := body[off+4 : off+HeaderSize]

	term := bytes.IndexByte(field, 0)
	if term < 0 {
		return 0, "", corruption(off+4, "", "name field is not NUL-terminated")
	}
	name := string(field[:term])
	for i := term + 1; i < NameFieldSize; i++ {
		if field[i] != 0 {
			return 0, "", corruption(off+4+i, name, "non-zero byte 0x%02x after name terminator", field[i])
		}
	}
	return size, name, nil
}
