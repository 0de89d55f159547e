package record

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/teaserverse/fwon/internal/randfield"
)

var frozen = time.Unix(1729350000, 500000000)

func scriptedSource() *randfield.Scripted {
	ints := []int{
		// username "hellowor"
		7, 4, 11, 11, 14, 22, 14, 17,
		// email "alice"
		0, 11, 8, 2, 4,
		// joined offset
		3600,
		// ip octets 10 and 200
		9, 199,
		// session count
		2,
	}
	for i := 0; i < SessionIDLength; i++ {
		ints = append(ints, i)
	}
	for i := 0; i < SessionIDLength; i++ {
		ints = append(ints, 25)
	}
	return &randfield.Scripted{
		Ints:   ints,
		Floats: []float64{0.5},
		Bools:  []bool{true, false},
	}
}

const snapshotRecord0 = "\n" +
	"# --- Record 0 ---\n" +
	"UserID=0\n" +
	"Username=hellowor_0\n" +
	"Email=alice@teaserverse.com\n" +
	"IsActive=true\n" +
	"Balance=5000.25\n" +
	"JoinedTimestamp=1729346400.5\n" +
	"FavoriteProjects=TeaserWorkspace,TeaserPaste,EmmieryAI\n" +
	"Settings={{Theme=light;Language=vi;Notifications=true;BetaUser=false}}\n" +
	"History=[Action=login;IP=192.168.1.10;Timestamp=1729350000.5]\n" +
	"History=[Action=logout;IP=192.168.1.200;Timestamp=1729350001.5]\n" +
	"Sessions=[SessionID=abcdefghijklmno;Device=Chrome;Timestamp=1729350000.5]\n" +
	"Sessions=[SessionID=zzzzzzzzzzzzzzz;Device=Chrome;Timestamp=1729350001.5]\n" +
	"\n"

func TestSerialize_Snapshot(t *testing.T) {
	s := NewFrozenSerializer(frozen)

	got := s.Serialize(0, scriptedSource())
	if string(got) != snapshotRecord0 {
		t.Errorf("snapshot mismatch\ngot:\n%s\nwant:\n%s", got, snapshotRecord0)
	}

	// Same inputs, same bytes.
	again := s.Serialize(0, scriptedSource())
	if !bytes.Equal(got, again) {
		t.Error("repeated serialization with identical inputs differs")
	}
}

func TestSerialize_SeededSourceIsDeterministic(t *testing.T) {
	s := NewFrozenSerializer(frozen)
	a := s.Serialize(12345, randfield.NewPCG(9, 10))
	b := s.Serialize(12345, randfield.NewPCG(9, 10))
	if !bytes.Equal(a, b) {
		t.Errorf("seeded output differs:\n%s\n---\n%s", a, b)
	}
}

func TestSerialize_IntegralClockKeepsFloatForm(t *testing.T) {
	s := NewFrozenSerializer(time.Unix(1729350000, 0))
	src := &randfield.Scripted{Ints: []int{0}}
	got := string(s.Serialize(42, src))

	for _, want := range []string{
		"# --- Record 42 ---\n",
		"UserID=42\n",
		"Username=aaaaaaaa_42\n",
		"Email=aaaaa@teaserverse.com\n",
		"IsActive=false\n",
		"Balance=0.00\n",
		"JoinedTimestamp=1729350000.0\n",
		"Settings={{Theme=light;",
		"History=[Action=login;IP=192.168.1.1;Timestamp=1729350000.0]\n",
		"History=[Action=logout;IP=192.168.1.1;Timestamp=1729350001.0]\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Sessions=") {
		t.Errorf("session count 0 should emit no Sessions lines:\n%s", got)
	}
}

func TestSerialize_FieldOrder(t *testing.T) {
	got := string(NewFrozenSerializer(frozen).Serialize(3, scriptedSource()))
	order := []string{
		"# --- Record 3 ---", "UserID=", "Username=", "Email=", "IsActive=", "Balance=",
		"JoinedTimestamp=", "FavoriteProjects=", "Settings=", "History=[Action=login",
		"History=[Action=logout", "Sessions=",
	}
	last := -1
	for _, key := range order {
		idx := strings.Index(got, key)
		if idx <= last {
			t.Fatalf("%q out of order (index %d after %d)", key, idx, last)
		}
		last = idx
	}
	if !strings.HasPrefix(got, "\n# --- Record") || !strings.HasSuffix(got, "]\n\n") {
		t.Errorf("record not delimited by leading and trailing blank lines: %q", got)
	}
}

func TestSerialize_LargeIDs(t *testing.T) {
	const id = uint64(18446744073709551615)
	got := string(NewFrozenSerializer(frozen).Serialize(id, randfield.NewPCG(1, 1)))
	if !strings.Contains(got, "UserID=18446744073709551615\n") {
		t.Errorf("max uint64 id not rendered canonically:\n%s", got)
	}
}

func TestSerialize_BufferGrows(t *testing.T) {
	// Two sessions push the record past the initial capacity.
	got := NewFrozenSerializer(frozen).Serialize(1<<40, scriptedSource())
	if _, err := Decode(got); err != nil {
		t.Fatalf("grown record failed to decode: %v", err)
	}
}

func TestAppend_ConcatenatesRecords(t *testing.T) {
	s := NewFrozenSerializer(frozen)
	var buf []byte
	for id := uint64(0); id < 3; id++ {
		buf = s.Append(buf, id, randfield.NewPCG(id, id))
	}
	if n := strings.Count(string(buf), HeaderPrefix); n != 3 {
		t.Errorf("got %d headers, want 3", n)
	}
}

func TestNow(t *testing.T) {
	if got := Now(time.Unix(10, 250000000)); got != 10.25 {
		t.Errorf("Now = %v, want 10.25", got)
	}
	if got := Now(time.Unix(-5, 0)); got != 0 {
		t.Errorf("pre-epoch Now = %v, want 0", got)
	}
}

func TestSerialize_WallClock(t *testing.T) {
	before := Now(time.Now())
	f, err := Decode(Serialize(5, randfield.NewRandom()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	login := f.History[0].Timestamp
	if login < before || login > Now(time.Now()) {
		t.Errorf("login timestamp %v outside call window", login)
	}
	if f.JoinedTimestamp > login || f.JoinedTimestamp <= login-MaxJoinedOffset {
		t.Errorf("joined %v not within %d seconds before %v", f.JoinedTimestamp, MaxJoinedOffset, login)
	}
}
