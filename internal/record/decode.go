package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	ferrors "github.com/teaserverse/fwon/internal/errors"
)

// History is one decoded History entry.
type History struct {
	Action        string
	IP            string
	Timestamp     float64
	TimestampText string
}

// Session is one decoded Sessions entry.
type Session struct {
	SessionID     string
	Device        string
	Timestamp     float64
	TimestampText string
}

// Fields is a decoded record block. Numeric fields keep their original text
// alongside the parsed value so formatting can be checked after the fact.
type Fields struct {
	ID                  uint64
	Username            string
	Email               string
	IsActive            bool
	Balance             float64
	BalanceText         string
	JoinedTimestamp     float64
	JoinedTimestampText string
	FavoriteProjects    string
	Settings            map[string]string
	History             []History
	Sessions            []Session
}

var singularKeys = []string{
	KeyUserID, KeyUsername, KeyEmail, KeyIsActive, KeyBalance,
	KeyJoinedTimestamp, KeyFavoriteProjects, KeySettings,
}

// Decode parses a single record block, with or without its surrounding
// blank lines.
func Decode(block []byte) (*Fields, error) {
	lines := strings.Split(strings.Trim(string(block), "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], HeaderPrefix) || !strings.HasSuffix(lines[0], HeaderSuffix) {
		return nil, ferrors.NewFormatError(ferrors.CodeMalformedRecord, "record does not start with a header line")
	}
	headerID, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimPrefix(lines[0], HeaderPrefix), HeaderSuffix), 10, 64)
	if err != nil {
		return nil, formatErr(ferrors.CodeMalformedRecord, "invalid header id %q", lines[0])
	}

	f := &Fields{}
	seen := make(map[string]int, len(singularKeys))

	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, formatErr(ferrors.CodeMalformedRecord, "line %q is not Key=Value", line)
		}
		seen[key]++
		if key != KeyHistory && key != KeySessions && seen[key] > 1 {
			return nil, formatErr(ferrors.CodeDuplicateField, "field %s repeated in record %d", key, headerID)
		}
		if err := f.set(key, value); err != nil {
			return nil, err
		}
	}

	for _, key := range singularKeys {
		if seen[key] == 0 {
			return nil, formatErr(ferrors.CodeMissingField, "field %s missing in record %d", key, headerID)
		}
	}
	if len(f.History) != 2 {
		return nil, formatErr(ferrors.CodeMalformedRecord, "record %d has %d History entries, want 2", headerID, len(f.History))
	}
	if len(f.Sessions) > MaxSessions {
		return nil, formatErr(ferrors.CodeMalformedRecord, "record %d has %d Sessions entries, want at most %d", headerID, len(f.Sessions), MaxSessions)
	}
	if f.ID != headerID {
		return nil, formatErr(ferrors.CodeMalformedRecord, "UserID %d does not match header id %d", f.ID, headerID)
	}
	return f, nil
}

func (f *Fields) set(key, value string) error {
	var err error
	switch key {
	case KeyUserID:
		f.ID, err = strconv.ParseUint(value, 10, 64)
	case KeyUsername:
		f.Username = value
	case KeyEmail:
		f.Email = value
	case KeyIsActive:
		f.IsActive, err = strconv.ParseBool(value)
	case KeyBalance:
		f.BalanceText = value
		f.Balance, err = strconv.ParseFloat(value, 64)
	case KeyJoinedTimestamp:
		f.JoinedTimestampText = value
		f.JoinedTimestamp, err = strconv.ParseFloat(value, 64)
	case KeyFavoriteProjects:
		f.FavoriteProjects = value
	case KeySettings:
		inner, ok := unwrap(value, "{{", "}}")
		if !ok {
			return formatErr(ferrors.CodeMalformedRecord, "Settings %q not wrapped in {{}}", value)
		}
		f.Settings = pairs(inner)
	case KeyHistory:
		inner, ok := unwrap(value, "[", "]")
		if !ok {
			return formatErr(ferrors.CodeMalformedRecord, "History %q not wrapped in []", value)
		}
		p := pairs(inner)
		h := History{Action: p["Action"], IP: p["IP"], TimestampText: p["Timestamp"]}
		h.Timestamp, err = strconv.ParseFloat(h.TimestampText, 64)
		f.History = append(f.History, h)
	case KeySessions:
		inner, ok := unwrap(value, "[", "]")
		if !ok {
			return formatErr(ferrors.CodeMalformedRecord, "Sessions %q not wrapped in []", value)
		}
		p := pairs(inner)
		s := Session{SessionID: p["SessionID"], Device: p["Device"], TimestampText: p["Timestamp"]}
		s.Timestamp, err = strconv.ParseFloat(s.TimestampText, 64)
		f.Sessions = append(f.Sessions, s)
	default:
		return formatErr(ferrors.CodeMalformedRecord, "unknown field %q", key)
	}
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCategoryFormat, ferrors.CodeMalformedRecord, "invalid "+key+" value", err)
	}
	return nil
}

func unwrap(s, prefix, suffix string) (string, bool) {
	if len(s) < len(prefix)+len(suffix) || !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
		return "", false
	}
	return s[len(prefix) : len(s)-len(suffix)], true
}

func pairs(s string) map[string]string {
	m := make(map[string]string, 4)
	for _, part := range strings.Split(s, ";") {
		if k, v, ok := strings.Cut(part, "="); ok {
			m[k] = v
		}
	}
	return m
}

func formatErr(code, format string, args ...interface{}) error {
	return ferrors.NewFormatError(code, fmt.Sprintf(format, args...))
}

// SplitBlocks is a bufio.SplitFunc yielding one record block per token,
// without its surrounding blank lines.
func SplitBlocks(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == '\n' {
		start++
	}
	if start == len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}
	if end := bytes.Index(data[start:], []byte("\n\n")); end >= 0 {
		return start + end + 2, data[start : start+end+1], nil
	}
	if atEOF {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

// Scanner iterates the record blocks of a stream.
type Scanner struct {
	sc *bufio.Scanner
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(SplitBlocks)
	return &Scanner{sc: sc}
}

// Next advances to the next block. It returns false at end of input or on error.
func (s *Scanner) Next() bool {
	return s.sc.Scan()
}

// Block returns the raw bytes of the current block. They are only valid
// until the next call to Next.
func (s *Scanner) Block() []byte {
	return s.sc.Bytes()
}

// Decode decodes the current block.
func (s *Scanner) Decode() (*Fields, error) {
	return Decode(s.sc.Bytes())
}

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return ferrors.NewIOError(ferrors.CodeReadFailed, "scan records", err)
	}
	return nil
}
