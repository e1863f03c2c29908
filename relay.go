package ric

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/docker/docker/pkg/stdcopy"
)

const (
	frameHeaderLen  = 8
	frameSizeOffset = 4

	// maxFrameSize bounds a single payload allocation. The engine splits
	// output into frames far smaller than this.
	maxFrameSize = 16 << 20
)

// Events decodes a multiplexed engine stream into LogEvents, lazily and in arrival order.
//
// The sequence ends when r reaches EOF at a frame boundary. A truncated or
// oversized frame, a read failure or an engine-side error frame is yielded as
// a final error.
func Events(r io.Reader) iter.Seq2[LogEvent, error] {
	return func(yield func(LogEvent, error) bool) {
		var header [frameHeaderLen]byte

		for {
			if _, err := io.ReadFull(r, header[:]); err != nil {
				if !errors.Is(err, io.EOF) {
					yield(LogEvent{}, fmt.Errorf("reading frame header: %w", err))
				}

				return
			}

			size := binary.BigEndian.Uint32(header[frameSizeOffset:])
			if size > maxFrameSize {
				yield(LogEvent{}, fmt.Errorf("frame of %d bytes exceeds the %d byte limit", size, maxFrameSize))

				return
			}

			data := make([]byte, size)

			if _, err := io.ReadFull(r, data); err != nil {
				yield(LogEvent{}, fmt.Errorf("reading frame payload: %w", err))

				return
			}

			var stream Stream

			switch stdcopy.StdType(header[0]) {
			case stdcopy.Stdout:
				stream = StreamStdout
			case stdcopy.Stderr:
				stream = StreamStderr
			case stdcopy.Stdin:
				stream = StreamStdinEcho
			case stdcopy.Systemerr:
				yield(LogEvent{}, fmt.Errorf("engine stream error: %s", data))

				return
			default:
				yield(LogEvent{}, fmt.Errorf("unrecognized stream type %d", header[0]))

				return
			}

			if !yield(LogEvent{Stream: stream, Data: data}, nil) {
				return
			}
		}
	}
}

// Relay writes every event of the multiplexed stream r to stdout or stderr as it arrives.
//
// Payloads are decoded as UTF-8 with invalid bytes replaced by U+FFFD; a
// multi-byte sequence split across frames is held back until it completes.
// Stdin echo goes to stdout. The returned error is informational: output
// already written stays written.
func Relay(r io.Reader, stdout, stderr io.Writer) error {
	writers := map[Stream]*lossyWriter{
		StreamStdout:    {w: stdout},
		StreamStderr:    {w: stderr},
		StreamStdinEcho: {w: stdout},
	}

	var relayErr error

	for ev, err := range Events(r) {
		if err != nil {
			relayErr = err

			break
		}

		if err := writers[ev.Stream].write(ev.Data); err != nil {
			relayErr = fmt.Errorf("writing %s: %w", ev.Stream, err)

			break
		}
	}

	for _, s := range []Stream{StreamStdout, StreamStdinEcho, StreamStderr} {
		if err := writers[s].flush(); err != nil && relayErr == nil {
			relayErr = fmt.Errorf("writing %s: %w", s, err)
		}
	}

	return relayErr
}

// lossyWriter writes valid UTF-8, carrying an incomplete trailing rune to the next write.
type lossyWriter struct {
	w       io.Writer
	pending []byte
}

func (l *lossyWriter) write(p []byte) error {
	buf := append(l.pending, p...)
	keep := incompleteTail(buf)
	l.pending = append([]byte(nil), buf[len(buf)-keep:]...)

	return l.emit(buf[:len(buf)-keep])
}

func (l *lossyWriter) flush() error {
	rest := l.pending
	l.pending = nil

	return l.emit(rest)
}

func (l *lossyWriter) emit(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	_, err := io.WriteString(l.w, strings.ToValidUTF8(string(b), string(utf8.RuneError)))

	return err
}

// incompleteTail returns how many trailing bytes of b form the start of a rune that is not yet complete.
func incompleteTail(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if !utf8.RuneStart(b[len(b)-i]) {
			continue
		}

		if utf8.FullRune(b[len(b)-i:]) {
			return 0
		}

		return i
	}

	return 0
}
