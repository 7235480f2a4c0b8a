// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package server

import (
	"encoding/binary"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

// tinyFork makes a resource file holding one 'STR ' (128) called "Greeting".
func tinyFork(data string) []byte {
	block := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
	block = append(block, data...)

	const name = "\x08Greeting"
	const mapLen = 28 + 2 + 8 + 12 + len(name)
	head := make([]byte, 256)
	binary.BigEndian.PutUint32(head[0:], 256)
	binary.BigEndian.PutUint32(head[4:], uint32(256+len(block)))
	binary.BigEndian.PutUint32(head[8:], uint32(len(block)))
	binary.BigEndian.PutUint32(head[12:], uint32(mapLen))

	m := make([]byte, 28)
	copy(m, head[:16])
	binary.BigEndian.PutUint16(m[24:], 28)
	binary.BigEndian.PutUint16(m[26:], 28+2+8+12)
	m = binary.BigEndian.AppendUint16(m, 0)
	m = append(m, "STR "...)
	m = binary.BigEndian.AppendUint16(m, 0)
	m = binary.BigEndian.AppendUint16(m, 10)
	m = binary.BigEndian.AppendUint16(m, 128)
	m = binary.BigEndian.AppendUint16(m, 0) // name offset
	m = binary.BigEndian.AppendUint32(m, 0)
	m = binary.BigEndian.AppendUint32(m, 0)
	m = append(m, name...)

	out := append(head, block...)
	return append(out, m...)
}

func newTestEcho(t *testing.T, openFiles int) (*echo.Echo, *Server) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string][]byte{
		"sub/one.rsrc": tinyFork("hello"),
		"two.rsrc":     tinyFork("world"),
		"junk.txt":     []byte("not a resource file"),
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, err := New(Config{
		Root:      dir,
		OpenFiles: openFiles,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	e := echo.New()
	s.Register(e)
	return e, s
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFileInfo(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	rec := get(t, e, "/api/files?path=sub/one.rsrc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	var info fileInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.DataOffset != 256 || info.Resources != 1 || info.Streamed || len(info.Types) != 1 || info.Types[0] != (typeInfo{Type: "STR ", Count: 1}) {
		t.Errorf("got %+v", info)
	}
	if _, err := uuid.Parse(rec.Header().Get(headerRequestID)); err != nil {
		t.Errorf("request ID: %v", err)
	}
}

func TestRequestIDPassedThrough(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	req := httptest.NewRequest(http.MethodGet, "/api/files?path=two.rsrc", nil)
	req.Header.Set(headerRequestID, "abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got != "abc" {
		t.Errorf("request ID %q", got)
	}
}

func TestResources(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	for _, target := range []string{
		"/api/resources?path=sub/one.rsrc",
		"/api/resources?path=sub/one.rsrc&type=STR%20",
	} {
		rec := get(t, e, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d body=%s", target, rec.Code, rec.Body.String())
		}
		var list []resourceInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Fatalf("%s: got %+v", target, list)
		}
		r := list[0]
		if r.Type != "STR " || r.ID != 128 || r.Name == nil || *r.Name != "Greeting" || r.RawLength != 5 || r.Length == nil || *r.Length != 5 || r.Error != "" {
			t.Errorf("%s: got %+v", target, r)
		}
	}

	if rec := get(t, e, "/api/resources?path=sub/one.rsrc&type=TEXT"); rec.Code != http.StatusNotFound {
		t.Errorf("missing type: status %d", rec.Code)
	}
	if rec := get(t, e, "/api/resources?path=sub/one.rsrc&type=LONGER"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad type: status %d", rec.Code)
	}
}

func TestData(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	rec := get(t, e, "/api/data?path=sub/one.rsrc&type=STR%20&id=128")
	if rec.Code != http.StatusOK || rec.Body.String() != "hello" {
		t.Errorf("status %d body=%q", rec.Code, rec.Body.String())
	}
	rec = get(t, e, "/api/data?path=two.rsrc&type=STR%20&id=128&raw=true")
	if rec.Code != http.StatusOK || rec.Body.String() != "world" {
		t.Errorf("raw: status %d body=%q", rec.Code, rec.Body.String())
	}
}

func TestErrors(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	cases := map[string]int{
		"/api/files":                                       http.StatusBadRequest,
		"/api/files?path=../escape":                        http.StatusBadRequest,
		"/api/files?path=/etc/passwd":                      http.StatusBadRequest,
		"/api/files?path=nothing":                          http.StatusNotFound,
		"/api/files?path=junk.txt":                         http.StatusUnprocessableEntity,
		"/api/data?path=sub/one.rsrc&type=STR%20&id=129":   http.StatusNotFound,
		"/api/data?path=sub/one.rsrc&type=STR%20&id=99999": http.StatusBadRequest,
		"/fs/nothing/STR%20/128":                           http.StatusNotFound,
	}
	for target, want := range cases {
		rec := get(t, e, target)
		if rec.Code != want {
			t.Errorf("%s: status %d, want %d", target, rec.Code, want)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%s: no error message in %q", target, rec.Body.String())
		}
	}
}

func TestFS(t *testing.T) {
	e, _ := newTestEcho(t, 4)
	rec := get(t, e, "/fs/sub/one.rsrc/STR%20/128")
	if rec.Code != http.StatusOK || rec.Body.String() != "hello" {
		t.Errorf("status %d body=%q", rec.Code, rec.Body.String())
	}

	rec = get(t, e, "/fs/sub/one.rsrc/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "STR") {
		t.Errorf("listing: status %d body=%q", rec.Code, rec.Body.String())
	}

	rec = get(t, e, "/fs/sub/one.rsrc")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/fs/sub/one.rsrc/" {
		t.Errorf("redirect: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestEviction(t *testing.T) {
	e, s := newTestEcho(t, 1)
	for range 3 {
		for _, p := range []string{"sub/one.rsrc", "two.rsrc"} {
			rec := get(t, e, "/api/data?path="+p+"&type=STR%20&id=128")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: status %d body=%s", p, rec.Code, rec.Body.String())
			}
		}
	}
	if n := s.files.Len(); n != 1 {
		t.Errorf("%d files open, want 1", n)
	}
}

func TestHeldFileSurvivesEviction(t *testing.T) {
	_, s := newTestEcho(t, 1)
	held, err := s.acquire("sub/one.rsrc")
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.acquire("two.rsrc") // evicts the held one
	if err != nil {
		t.Fatal(err)
	}
	other.release()

	r, ok := held.Lookup([4]byte{'S', 'T', 'R', ' '}, 128)
	if !ok {
		t.Fatal("resource missing")
	}
	data, err := r.Data()
	if err != nil || string(data) != "hello" {
		t.Errorf("got %q, %v", data, err)
	}
	held.release()
}
