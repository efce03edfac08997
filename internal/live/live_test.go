package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/odorcolor/internal/identity"
	"github.com/ashureev/odorcolor/internal/survey"
	"github.com/ashureev/odorcolor/internal/wheel"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func TestConnManager_RegisterUnregister(t *testing.T) {
	m := NewConnManager()
	conn := &websocket.Conn{}

	m.Register("user123", "tab-1", conn)
	if m.GetActive("user123", "tab-1") != conn || m.Count() != 1 {
		t.Fatal("connection not registered")
	}

	m.Unregister("user123", "tab-1", conn)
	if m.GetActive("user123", "tab-1") != nil || m.Count() != 0 {
		t.Fatal("connection not unregistered")
	}
}

func TestConnManager_UnregisterStale(t *testing.T) {
	m := NewConnManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	m.Register("user123", "tab-1", conn1)
	m.Register("user123", "tab-2", conn2)
	m.Unregister("user123", "tab-2", conn1)

	if m.GetActive("user123", "tab-2") != conn2 {
		t.Fatal("stale unregister removed the live connection")
	}
}

func TestConnManager_ConcurrentAccess(t *testing.T) {
	m := NewConnManager()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			m.Register("concurrentUser", "tab-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()
	for i := 0; i < 1000; i++ {
		m.GetActive("concurrentUser", "tab-"+strconv.Itoa(i))
	}
	<-done

	if m.Count() != 1000 {
		t.Fatalf("Count = %d, want 1000", m.Count())
	}
}

func dialPointer(t *testing.T, flows *survey.Registry) (*websocket.Conn, context.Context) {
	t.Helper()
	geom := wheel.NewGeometry(320, 8)
	h := NewPointerHandler(flows, geom, survey.DefaultLabels, NewConnManager(), "", true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), "anon_ws", "tab-1")))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

func TestPointerStreamPing(t *testing.T) {
	conn, ctx := dialPointer(t, survey.NewRegistry())

	if err := wsjson.Write(ctx, conn, map[string]string{"type": TypePing}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply serverMessage
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != TypePong {
		t.Fatalf("reply type = %q, want pong", reply.Type)
	}
}

func TestPointerStreamDragUpdatesSelection(t *testing.T) {
	flows := survey.NewRegistry()
	if err := flows.With("anon_ws", "tab-1", (*survey.Flow).Start); err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, ctx := dialPointer(t, flows)

	send := func(kind wheel.EventKind, x, y float64) {
		t.Helper()
		msg := clientMessage{Type: TypePointer, PointerEvent: wheel.PointerEvent{Kind: kind, Source: wheel.Touch, X: x, Y: y}}
		if err := wsjson.Write(ctx, conn, msg); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// A move before any press is ignored, so the first reply comes from the press.
	send(wheel.Move, 160, 8)
	send(wheel.Press, 312, 160)

	var reply serverMessage
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != TypeSelection || reply.Survey == nil {
		t.Fatalf("reply = %+v", reply)
	}
	if got := reply.Survey.Slots[0].Color.Hex; got != "#ff0000" {
		t.Fatalf("hex = %q, want #ff0000", got)
	}

	send(wheel.Release, 312, 160)
	send(wheel.Move, 160, 312)
	if err := wsjson.Write(ctx, conn, map[string]string{"type": TypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != TypePong {
		t.Fatalf("move after release produced %q", reply.Type)
	}
}

func TestPointerStreamOutsideTrial(t *testing.T) {
	conn, ctx := dialPointer(t, survey.NewRegistry())

	msg := clientMessage{Type: TypePointer, PointerEvent: wheel.PointerEvent{Kind: wheel.Press, X: 10, Y: 10}}
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply serverMessage
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != TypeError {
		t.Fatalf("reply type = %q, want error", reply.Type)
	}
}
