// Package verify reads generated output back and checks every record
// against the layout and formatting rules.
package verify

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spaolacci/murmur3"

	ferrors "github.com/teaserverse/fwon/internal/errors"
	"github.com/teaserverse/fwon/internal/numfmt"
	"github.com/teaserverse/fwon/internal/record"
	"github.com/teaserverse/fwon/internal/storage"
)

// MaxProblems caps the problems kept in a Report. Further problems are
// only counted.
const MaxProblems = 100

// Problem is one record that failed a check.
type Problem struct {
	// Index is the position of the block in the stream, starting at 0.
	Index  uint64
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("block %d: %s", p.Index, p.Reason)
}

// Report summarizes a verified stream.
type Report struct {
	Records uint64
	Bytes   int64

	// Digest is the hex murmur3 128-bit hash of the raw stream.
	Digest string

	// SessionHistogram counts records by their number of Sessions entries.
	SessionHistogram [record.MaxSessions + 1]uint64

	MinID uint64
	MaxID uint64

	Problems     []Problem
	ProblemCount uint64
}

// OK reports whether every record passed.
func (r *Report) OK() bool {
	return r.ProblemCount == 0
}

func (r *Report) addProblem(idx uint64, format string, args ...interface{}) {
	r.ProblemCount++
	if len(r.Problems) < MaxProblems {
		r.Problems = append(r.Problems, Problem{Index: idx, Reason: fmt.Sprintf(format, args...)})
	}
}

// File verifies the local file at path.
func File(path string) (*Report, error) {
	return Stored(storage.NewLocalDestination(false), path)
}

// Stored verifies the object at path in s.
func Stored(s storage.Store, path string) (*Report, error) {
	rc, err := s.Open(path)
	if err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeReadFailed, "open "+path, err)
	}
	defer rc.Close()
	return Reader(rc)
}

// Reader verifies a stream of record blocks. The returned error is non-nil
// only when reading fails; record-level failures are reported as Problems.
func Reader(r io.Reader) (*Report, error) {
	h := murmur3.New128()
	cr := &countingReader{r: io.TeeReader(r, h)}

	rep := &Report{}
	sc := record.NewScanner(cr)
	var idx uint64
	for sc.Next() {
		check(rep, idx, sc.Block())
		idx++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	rep.Records = idx
	rep.Bytes = cr.n
	rep.Digest = hex.EncodeToString(h.Sum(nil))
	return rep, nil
}

func check(rep *Report, idx uint64, block []byte) {
	f, err := record.Decode(block)
	if err != nil {
		rep.addProblem(idx, "%v", err)
		return
	}

	if f.ID != idx {
		rep.addProblem(idx, "UserID %d out of order", f.ID)
	}
	if idx == 0 || f.ID < rep.MinID {
		rep.MinID = f.ID
	}
	if f.ID > rep.MaxID {
		rep.MaxID = f.ID
	}

	if dot := strings.IndexByte(f.BalanceText, '.'); dot < 0 || len(f.BalanceText)-dot-1 != 2 {
		rep.addProblem(idx, "Balance %q does not have two decimals", f.BalanceText)
	}
	if f.Balance < 0 || f.Balance > record.MaxBalance {
		rep.addProblem(idx, "Balance %s out of range", f.BalanceText)
	}

	checkShortest(rep, idx, record.KeyJoinedTimestamp, f.JoinedTimestamp, f.JoinedTimestampText)
	for _, hist := range f.History {
		checkShortest(rep, idx, record.KeyHistory, hist.Timestamp, hist.TimestampText)
	}
	for _, s := range f.Sessions {
		checkShortest(rep, idx, record.KeySessions, s.Timestamp, s.TimestampText)
		if len(s.SessionID) != record.SessionIDLength {
			rep.addProblem(idx, "SessionID %q has length %d", s.SessionID, len(s.SessionID))
		}
	}

	if f.History[0].Action != "login" || f.History[1].Action != "logout" {
		rep.addProblem(idx, "History actions %q, %q", f.History[0].Action, f.History[1].Action)
	}
	if f.History[1].Timestamp != f.History[0].Timestamp+1 {
		rep.addProblem(idx, "logout timestamp is not login + 1")
	}

	rep.SessionHistogram[len(f.Sessions)]++
}

func checkShortest(rep *Report, idx uint64, key string, v float64, text string) {
	if want := numfmt.FormatShortest(v); want != text {
		rep.addProblem(idx, "%s %q is not shortest round-trip text (want %q)", key, text, want)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
