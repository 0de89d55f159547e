// Package record encodes synthetic user records into the flat FWON text layout
// and decodes them back.
//
// A record block on disk looks like:
//
//	<blank line>
//	# --- Record 7 ---
//	UserID=7
//	Username=qwertyui_7
//	Email=abcde@teaserverse.com
//	IsActive=true
//	Balance=4821.07
//	JoinedTimestamp=1729301234.567891
//	FavoriteProjects=TeaserWorkspace,TeaserPaste,EmmieryAI
//	Settings={{Theme=dark;Language=vi;Notifications=true;BetaUser=false}}
//	History=[Action=login;IP=192.168.1.14;Timestamp=1729350000.123456]
//	History=[Action=logout;IP=192.168.1.201;Timestamp=1729350001.123456]
//	Sessions=[SessionID=abcdefghijklmno;Device=Chrome;Timestamp=1729350000.123456]
//	<blank line>
//
// Field order is fixed and is part of the on-disk contract.
package record

import (
	"time"

	"github.com/teaserverse/fwon/internal/numfmt"
	"github.com/teaserverse/fwon/internal/randfield"
)

// DefaultCapacity is the initial buffer size for one record. Records with
// two sessions run slightly past it and the buffer grows as needed.
const DefaultCapacity = 512

// Layout constants.
const (
	HeaderPrefix     = "# --- Record "
	HeaderSuffix     = " ---"
	EmailDomain      = "@teaserverse.com"
	FavoriteProjects = "TeaserWorkspace,TeaserPaste,EmmieryAI"
	IPPrefix         = "192.168.1."
	SessionDevice    = "Chrome"

	UsernameLength  = 8
	EmailLength     = 5
	SessionIDLength = 15

	// MaxBalance is the exclusive upper bound for Balance.
	MaxBalance = 10000.50
	// MaxJoinedOffset is the exclusive upper bound, in seconds, subtracted from now.
	MaxJoinedOffset = 100000
	// MaxSessions is the inclusive upper bound on Sessions entries.
	MaxSessions = 2
)

// Field keys in emission order.
const (
	KeyUserID           = "UserID"
	KeyUsername         = "Username"
	KeyEmail            = "Email"
	KeyIsActive         = "IsActive"
	KeyBalance          = "Balance"
	KeyJoinedTimestamp  = "JoinedTimestamp"
	KeyFavoriteProjects = "FavoriteProjects"
	KeySettings         = "Settings"
	KeyHistory          = "History"
	KeySessions         = "Sessions"
)

const settingsTail = ";Language=vi;Notifications=true;BetaUser=false}}"

// Serializer renders records. The zero value reads the wall clock.
type Serializer struct {
	// Clock returns the capture time for a record. Nil means time.Now.
	Clock func() time.Time
}

// NewSerializer creates a serializer that reads the wall clock.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// NewFrozenSerializer creates a serializer whose clock always returns t.
func NewFrozenSerializer(t time.Time) *Serializer {
	return &Serializer{Clock: func() time.Time { return t }}
}

// Serialize renders record id into a freshly allocated buffer.
func Serialize(id uint64, src randfield.Source) []byte {
	return NewSerializer().Serialize(id, src)
}

// Serialize renders record id into a freshly allocated buffer.
func (s *Serializer) Serialize(id uint64, src randfield.Source) []byte {
	return s.Append(make([]byte, 0, DefaultCapacity), id, src)
}

// Append renders record id onto dst and returns the extended slice.
// The clock is read once; all timestamps derive from that reading.
func (s *Serializer) Append(dst []byte, id uint64, src randfield.Source) []byte {
	now := Now(s.now())

	var idBuf [20]byte
	idText := numfmt.AppendUint(idBuf[:0], id)

	var nowBuf [32]byte
	nowText := numfmt.AppendShortest(nowBuf[:0], now)

	dst = append(dst, '\n')
	dst = append(dst, HeaderPrefix...)
	dst = append(dst, idText...)
	dst = append(dst, HeaderSuffix...)
	dst = append(dst, '\n')

	dst = append(dst, KeyUserID+"="...)
	dst = append(dst, idText...)
	dst = append(dst, '\n')

	dst = append(dst, KeyUsername+"="...)
	dst = randfield.AppendString(dst, src, UsernameLength)
	dst = append(dst, '_')
	dst = append(dst, idText...)
	dst = append(dst, '\n')

	dst = append(dst, KeyEmail+"="...)
	dst = randfield.AppendString(dst, src, EmailLength)
	dst = append(dst, EmailDomain...)
	dst = append(dst, '\n')

	dst = append(dst, KeyIsActive+"="...)
	dst = appendBool(dst, randfield.Bool(src))
	dst = append(dst, '\n')

	dst = append(dst, KeyBalance+"="...)
	dst = numfmt.AppendFixed2(dst, randfield.Float(src, 0, MaxBalance))
	dst = append(dst, '\n')

	joined := now - float64(randfield.Int(src, 0, MaxJoinedOffset))
	dst = append(dst, KeyJoinedTimestamp+"="...)
	dst = numfmt.AppendShortest(dst, joined)
	dst = append(dst, '\n')

	dst = append(dst, KeyFavoriteProjects+"="...)
	dst = append(dst, FavoriteProjects...)
	dst = append(dst, '\n')

	dst = append(dst, KeySettings+"={{Theme="...)
	if randfield.Bool(src) {
		dst = append(dst, "dark"...)
	} else {
		dst = append(dst, "light"...)
	}
	dst = append(dst, settingsTail...)
	dst = append(dst, '\n')

	dst = appendHistory(dst, "login", randfield.Int(src, 1, 256), nowText)
	var logoutBuf [32]byte
	dst = appendHistory(dst, "logout", randfield.Int(src, 1, 256), numfmt.AppendShortest(logoutBuf[:0], now+1))

	sessions := randfield.Int(src, 0, MaxSessions+1)
	for i := 0; i < sessions; i++ {
		dst = append(dst, KeySessions+"=[SessionID="...)
		dst = randfield.AppendString(dst, src, SessionIDLength)
		dst = append(dst, ";Device="+SessionDevice+";Timestamp="...)
		dst = numfmt.AppendShortest(dst, now+float64(i))
		dst = append(dst, ']', '\n')
	}

	return append(dst, '\n')
}

func (s *Serializer) now() time.Time {
	if s == nil || s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Now converts t to fractional seconds since the Unix epoch.
// Times before the epoch yield 0.
func Now(t time.Time) float64 {
	if t.Before(time.Unix(0, 0)) {
		return 0
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func appendHistory(dst []byte, action string, octet int, ts []byte) []byte {
	dst = append(dst, KeyHistory+"=[Action="...)
	dst = append(dst, action...)
	dst = append(dst, ";IP="+IPPrefix...)
	dst = numfmt.AppendInt(dst, int64(octet))
	dst = append(dst, ";Timestamp="...)
	dst = append(dst, ts...)
	return append(dst, ']', '\n')
}

func appendBool(dst []byte, b bool) []byte {
	if b {
		return append(dst, "true"...)
	}
	return append(dst, "false"...)
}
