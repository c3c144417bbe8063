package runtime

import (
	"context"
	"testing"
	"time"
)

func TestApp_SendMsgPostsWithoutRender(t *testing.T) {
	app := NewApp(AppConfig{})
	msg := ResizeMsg{Width: 10, Height: 5}

	if app.handleCommand(SendMsg{Message: msg}) {
		t.Fatalf("SendMsg forced a render")
	}
	select {
	case got := <-app.messages:
		if got != msg {
			t.Fatalf("posted %#v", got)
		}
	default:
		t.Fatal("SendMsg posted nothing")
	}
}

func TestApp_AfterWaitsForRun(t *testing.T) {
	app := NewApp(AppConfig{})
	app.After(0, func() {})

	select {
	case <-app.messages:
		t.Fatal("effect ran before the loop started")
	default:
	}

	app.taskCtx = context.Background()
	app.startPendingEffects()

	select {
	case msg := <-app.messages:
		call, ok := msg.(CallMsg)
		if !ok || call.Fn == nil {
			t.Fatalf("posted %#v, want CallMsg", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("pending effect never posted")
	}
}

func TestDefaultUpdate_RunsCall(t *testing.T) {
	app := NewApp(AppConfig{})
	app.screen = NewScreen(10, 2)
	ran := 0
	if !DefaultUpdate(app, CallMsg{Fn: func() { ran++ }}) {
		t.Fatalf("CallMsg should request a render")
	}
	DefaultUpdate(app, CallMsg{})
	if ran != 1 {
		t.Fatalf("ran %d times", ran)
	}
}
