package detector

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ccollicutt/logsieve/pkg/logentry"
)

// Forwarded record layout: a little-endian int32 severity code followed by
// two fixed, zero-padded text fields. There is no padding between fields.
const (
	MessageSize = 512
	StackSize   = 1024
	RecordSize  = 4 + MessageSize + StackSize
)

// Severity codes sent by forwarding producers.
const (
	CodeError     int32 = 0
	CodeAssert    int32 = 1
	CodeWarning   int32 = 2
	CodeLog       int32 = 3
	CodeException int32 = 4
)

// ForwardedRecord is the fixed-size record sent by a forwarding transport.
type ForwardedRecord struct {
	SeverityCode int32
	Message      string
	Stack        string
}

// Forwarded builds a record from forwarded fields. Text longer than the wire
// fields is cut to MessageSize and StackSize bytes.
func Forwarded(code int32, message, stack string) Record {
	return Record{
		Kind:     logentry.SourceForwarded,
		Severity: forwardedSeverity(code),
		Message:  truncate(message, MessageSize),
		Stack:    truncate(stack, StackSize),
	}
}

// Record converts the wire record into a detector record.
func (r ForwardedRecord) Record() Record {
	return Forwarded(r.SeverityCode, r.Message, r.Stack)
}

// MarshalBinary encodes r into exactly RecordSize bytes.
func (r ForwardedRecord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.SeverityCode))
	copy(buf[4:4+MessageSize], truncate(r.Message, MessageSize))
	copy(buf[4+MessageSize:], truncate(r.Stack, StackSize))
	return buf, nil
}

// UnmarshalBinary decodes exactly RecordSize bytes.
func (r *ForwardedRecord) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("forwarded record is %d bytes, want %d", len(data), RecordSize)
	}
	r.SeverityCode = int32(binary.LittleEndian.Uint32(data[0:4]))
	r.Message = cString(data[4 : 4+MessageSize])
	r.Stack = cString(data[4+MessageSize:])
	return nil
}

// ForwardedReader reads consecutive records from a stream.
type ForwardedReader struct {
	r   io.Reader
	buf []byte
}

// NewForwardedReader wraps r.
func NewForwardedReader(r io.Reader) *ForwardedReader {
	return &ForwardedReader{r: r, buf: make([]byte, RecordSize)}
}

// Next returns the next record. It returns io.EOF at a clean end of stream
// and io.ErrUnexpectedEOF when the stream stops inside a record.
func (fr *ForwardedReader) Next() (ForwardedRecord, error) {
	var rec ForwardedRecord
	if _, err := io.ReadFull(fr.r, fr.buf); err != nil {
		return rec, err
	}
	err := rec.UnmarshalBinary(fr.buf)
	return rec, err
}

// IsForwardedFile reports whether path looks like a stream of forwarded
// records: a non-empty whole number of records whose first severity code is
// one of the known codes.
func IsForwardedFile(path string) (bool, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 || info.Size()%RecordSize != 0 {
		return false, nil
	}

	var head [4]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return false, err
	}
	code := int32(binary.LittleEndian.Uint32(head[:]))
	return code >= CodeError && code <= CodeException, nil
}

// forwardedSeverity maps log to info and warning to warning. Errors,
// asserts, exceptions and unknown codes are errors.
func forwardedSeverity(code int32) logentry.Severity {
	switch code {
	case CodeLog:
		return logentry.SeverityInfo
	case CodeWarning:
		return logentry.SeverityWarning
	default:
		return logentry.SeverityError
	}
}

// truncate cuts s to at most n bytes. A valid multi-byte sequence that
// would straddle the cut is dropped whole; invalid bytes are cut at n.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for i := n - 1; i >= 0 && i > n-utf8.UTFMax; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if _, size := utf8.DecodeRuneInString(s[i:]); size > 1 && i+size > n {
			return s[:i]
		}
		break
	}
	return s[:n]
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
