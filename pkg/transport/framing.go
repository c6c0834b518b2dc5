package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize is the default maximum message size (32 MiB).
	// Downloads travel as one message, so this bounds the image size.
	DefaultMaxMessageSize = 32 << 20

	// MaxLogFrameDataSize is the maximum frame data size to include in logs (4 KB).
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates the message exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageEmpty indicates an empty message.
	ErrMessageEmpty = errors.New("message is empty")

	// ErrFrameTruncated indicates the frame was truncated.
	ErrFrameTruncated = errors.New("frame truncated")
)

// frameLog is the optional capture log of a frame reader or writer.
type frameLog struct {
	logger log.Logger
	connID string
}

func (fl *frameLog) log(data []byte, direction log.Direction) {
	if fl.logger == nil {
		return
	}
	frame := &log.FrameEvent{Size: LengthPrefixSize + len(data), Data: data}
	if len(data) > MaxLogFrameDataSize {
		frame.Data = data[:MaxLogFrameDataSize]
		frame.Truncated = true
	}
	fl.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: fl.connID,
		Direction: direction,
		Layer:     log.LayerBridge,
		Category:  log.CategoryFrame,
		Frame:     frame,
	})
}

// FrameWriter writes length-prefixed frames to an underlying writer.
type FrameWriter struct {
	w              io.Writer
	maxMessageSize uint32
	mu             sync.Mutex
	frameLog
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return NewFrameWriterWithMaxSize(w, DefaultMaxMessageSize)
}

// NewFrameWriterWithMaxSize creates a frame writer with a custom max size.
func NewFrameWriterWithMaxSize(w io.Writer, maxSize uint32) *FrameWriter {
	return &FrameWriter{w: w, maxMessageSize: maxSize}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteFrame writes a length-prefixed frame.
// Thread-safe: can be called from multiple goroutines.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if uint64(len(data)) > uint64(fw.maxMessageSize) {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), fw.maxMessageSize)
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	// Prefix and payload go out in one write.
	frame := binary.BigEndian.AppendUint32(make([]byte, 0, LengthPrefixSize+len(data)), uint32(len(data)))
	frame = append(frame, data...)
	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	fw.log(data, log.DirectionOut)
	return nil
}

// FrameReader reads length-prefixed frames from an underlying reader.
type FrameReader struct {
	r              io.Reader
	maxMessageSize uint32
	lengthBuf      [LengthPrefixSize]byte
	frameLog
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderWithMaxSize(r, DefaultMaxMessageSize)
}

// NewFrameReaderWithMaxSize creates a frame reader with a custom max size.
func NewFrameReaderWithMaxSize(r io.Reader, maxSize uint32) *FrameReader {
	return &FrameReader{r: r, maxMessageSize: maxSize}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// ReadFrame reads a length-prefixed frame.
// Returns the frame payload (without the length prefix).
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.lengthBuf[:])
	if length == 0 {
		return nil, ErrMessageEmpty
	}
	if length > fr.maxMessageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, fr.maxMessageSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	fr.log(payload, log.DirectionIn)
	return payload, nil
}

// Framer combines frame reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a new framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return NewFramerWithMaxSize(rw, DefaultMaxMessageSize)
}

// NewFramerWithMaxSize creates a framer with a custom max message size.
func NewFramerWithMaxSize(rw io.ReadWriter, maxSize uint32) *Framer {
	return &Framer{
		FrameReader: NewFrameReaderWithMaxSize(rw, maxSize),
		FrameWriter: NewFrameWriterWithMaxSize(rw, maxSize),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}
