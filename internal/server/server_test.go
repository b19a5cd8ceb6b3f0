package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/client"
	"github.com/muurk/premiere/internal/protocol"
	"github.com/muurk/premiere/internal/urls"
)

var leakOptions = []goleak.Option{
	goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
}

const twoScripts = `version: 1
scripts:
  - id: a
    title: Alpha
  - id: b
    title: Beta
`

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s.Handler(), urls.Health)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	health := decode[protocol.Health](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 4, health.Scripts)
}

func TestScriptsListInCatalogOrder(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s.Handler(), urls.Scripts)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[protocol.ScriptList](t, rec)
	assert.Equal(t, card.FromCatalog(catalog.Default()), list.Scripts)
	assert.NotContains(t, rec.Body.String(), "FADE IN", "summaries omit full text")
}

func TestScriptByID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s.Handler(), urls.Script("3"))
	require.Equal(t, http.StatusOK, rec.Code)
	r := decode[catalog.Record](t, rec)
	want, _ := catalog.Default().Get("3")
	assert.Equal(t, want, r)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		path    string
		message string
	}{
		{urls.Script("99"), "script 99 not found"},
		{"/nope", "no route for GET /nope"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s.Handler(), tt.path)
			require.Equal(t, http.StatusNotFound, rec.Code)
			body := decode[protocol.ErrorResponse](t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.Equal(t, http.StatusNotFound, body.Status)
		})
	}
}

func TestCatalogDocument(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s.Handler(), urls.Catalog)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[catalog.Document](t, rec)
	assert.Equal(t, catalog.Default().Document(), doc)
}

func TestHandlersFollowReplacedCatalog(t *testing.T) {
	s := newTestServer(t, nil)
	next, err := catalog.Parse([]byte(twoScripts))
	require.NoError(t, err)

	s.Source().Replace(next)

	health := decode[protocol.Health](t, get(t, s.Handler(), urls.Health))
	assert.Equal(t, 2, health.Scripts)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), urls.Script("1")).Code)
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), urls.Script("a")).Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s.Handler(), urls.Health)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, urls.Health, nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poster.txt"), []byte("poster"), 0o644))

	s := newTestServer(t, &Config{ImageDir: dir})
	rec := get(t, s.Handler(), urls.Images+"poster.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "poster", rec.Body.String())

	noImages := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, get(t, noImages.Handler(), urls.Images+"poster.txt").Code)
}

func TestConfigValidate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Config{}, ""},
		{"tls pair", Config{CertPath: "c", KeyPath: "k"}, ""},
		{"cert only", Config{CertPath: "c"}, "must be provided together"},
		{"key only", Config{KeyPath: "k"}, "must be provided together"},
		{"bad port", Config{Port: 70000}, "invalid port"},
		{"missing images", Config{ImageDir: filepath.Join(t.TempDir(), "nope")}, "image directory"},
		{"images is a file", Config{ImageDir: file}, "is not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRejectsBadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 9\nscripts: []\n"), 0o644))

	_, err := New(&Config{CatalogPath: path})
	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", (&Config{Host: "127.0.0.1", Port: 8080}).Addr())
	assert.Equal(t, ":9000", (&Config{Port: 9000}).Addr())
	assert.Equal(t, "[::1]:80", (&Config{Host: "::1", Port: 80}).Addr())
}

func dialFeed(t *testing.T, baseURL string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(baseURL, "http") + urls.Feed
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.Decode(data)
	require.NoError(t, err)
	return msg
}

func TestFeedSendsSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialFeed(t, ts.URL)
	defer func() { _ = conn.Close() }()

	hello := readMessage(t, conn)
	assert.Equal(t, protocol.TypeHello, hello.Type)
	require.NotEmpty(t, hello.Session)

	first := readMessage(t, conn)
	assert.Equal(t, protocol.TypeCatalog, first.Type)
	assert.Equal(t, hello.Session, first.Session)
	assert.Equal(t, uint64(1), first.Seq)
	cat, err := first.CatalogValue()
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
	assert.Equal(t, 1, s.ActiveFeeds())

	next, err := catalog.Parse([]byte(twoScripts))
	require.NoError(t, err)
	s.Source().Replace(next)

	second := readMessage(t, conn)
	assert.Equal(t, uint64(2), second.Seq)
	cat, err = second.CatalogValue()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cat.IDs())
}

func TestFeedClosedOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialFeed(t, ts.URL)
	defer func() { _ = conn.Close() }()
	readMessage(t, conn)
	readMessage(t, conn)

	s.feeds.closeAll()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.True(t, s.feeds.wait(ctx))
	assert.Equal(t, 0, s.ActiveFeeds())

	// Late feeds are turned away.
	late := dialFeed(t, ts.URL)
	defer func() { _ = late.Close() }()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestRunServesAndReloads(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions...)

	path := filepath.Join(t.TempDir(), "scripts.yaml")
	require.NoError(t, os.WriteFile(path, catalogYAML(t, catalog.Default()), 0o644))

	s := newTestServer(t, &Config{Host: "127.0.0.1", Port: 0, CatalogPath: path})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	select {
	case <-s.Ready():
	case err := <-runErr:
		t.Fatalf("Run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	c := client.New("http://" + s.ListenAddr().String())
	c.SetRetry(0, time.Millisecond)
	require.NoError(t, c.Ping(ctx))

	updates := make(chan *catalog.Catalog, 4)
	subCtx, subCancel := context.WithCancel(ctx)
	subDone := make(chan error, 1)
	go func() {
		subDone <- c.Subscribe(subCtx, func(cat *catalog.Catalog) { updates <- cat })
	}()

	select {
	case cat := <-updates:
		assert.Equal(t, 4, cat.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, os.WriteFile(path, []byte(twoScripts), 0o644))

	select {
	case cat := <-updates:
		assert.Equal(t, []string{"a", "b"}, cat.IDs())
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot after reload")
	}

	fetched, err := c.FetchCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Len())

	subCancel()
	require.NoError(t, <-subDone)

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
	c.HTTPClient.CloseIdleConnections()
}

func catalogYAML(t *testing.T, c *catalog.Catalog) []byte {
	t.Helper()
	data, err := catalog.Marshal(c.Document())
	require.NoError(t, err)
	return data
}
