package core

// streaming.go prepares export files for encoding/csv without loading them
// into memory: the UTF-8 BOM some exporters prepend is dropped, and invalid
// UTF-8 sequences are replaced with U+FFFD so a stray byte cannot poison a
// whole row.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const sanitizerChunk = 32 * 1024

// NewSourceReader wraps r with BOM stripping and UTF-8 repair.
func NewSourceReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{src: br, chunk: make([]byte, sanitizerChunk)}
}

// newCSVReader returns a lenient csv.Reader over a sanitized stream.
// Export rows can have ragged widths and unescaped quotes in free text.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(NewSourceReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// utf8Sanitizer replaces invalid UTF-8 with the replacement character.
// A multi-byte rune split across two reads is held back until complete.
type utf8Sanitizer struct {
	src   io.Reader
	chunk []byte
	in    []byte
	out   []byte
	err   error
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		n, err := s.src.Read(s.chunk)
		s.in = append(s.in, s.chunk[:n]...)
		if err != nil {
			s.err = err
		}
		s.flush(s.err != nil)
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// flush moves complete runes from in to out. With final set, a truncated
// trailing sequence is treated as invalid instead of waiting for more input.
func (s *utf8Sanitizer) flush(final bool) {
	data := s.in
	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			i := 1
			for i < len(data) && data[i] < utf8.RuneSelf {
				i++
			}
			s.out = append(s.out, data[:i]...)
			data = data[i:]
			continue
		}

		if !final && !utf8.FullRune(data) {
			break
		}

		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			s.out = utf8.AppendRune(s.out, utf8.RuneError)
		} else {
			s.out = append(s.out, data[:size]...)
		}
		data = data[size:]
	}
	s.in = append(s.in[:0], data...)
}
