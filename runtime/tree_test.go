package runtime

import (
	"slices"
	"testing"
)

// nodeWidget is a do-nothing widget that records its hooks into trace.
type nodeWidget struct {
	name     string
	trace    *[]string
	children []Widget
}

func (w *nodeWidget) Measure(c Constraints) Size             { return Size{} }
func (w *nodeWidget) Layout(bounds Rect)                     {}
func (w *nodeWidget) Render(ctx RenderContext)               {}
func (w *nodeWidget) HandleMessage(msg Message) HandleResult { return Unhandled() }
func (w *nodeWidget) ChildWidgets() []Widget                 { return w.children }

func (w *nodeWidget) record(event string) {
	if w.trace != nil {
		*w.trace = append(*w.trace, event+" "+w.name)
	}
}

func (w *nodeWidget) Bind(Services) { w.record("bind") }
func (w *nodeWidget) Unbind()       { w.record("unbind") }
func (w *nodeWidget) Mount()        { w.record("mount") }
func (w *nodeWidget) Unmount()      { w.record("unmount") }

func sampleTree(trace *[]string) Widget {
	leaf := func(name string) Widget { return &nodeWidget{name: name, trace: trace} }
	return &nodeWidget{name: "root", trace: trace, children: []Widget{
		&nodeWidget{name: "list", trace: trace, children: []Widget{leaf("a"), nil, leaf("b")}},
		leaf("status"),
	}}
}

func TestWalk_Order(t *testing.T) {
	var pre, post []string
	Walk(sampleTree(nil), func(w Widget) {
		pre = append(pre, w.(*nodeWidget).name)
	}, func(w Widget) {
		post = append(post, w.(*nodeWidget).name)
	})
	if want := []string{"root", "list", "a", "b", "status"}; !slices.Equal(pre, want) {
		t.Fatalf("pre = %v, want %v", pre, want)
	}
	if want := []string{"a", "b", "list", "status", "root"}; !slices.Equal(post, want) {
		t.Fatalf("post = %v, want %v", post, want)
	}
	Walk(nil, nil, nil)
}

func TestBindTree_SkipsZeroServices(t *testing.T) {
	var trace []string
	BindTree(sampleTree(&trace), Services{})
	if len(trace) != 0 {
		t.Fatalf("zero services bound: %v", trace)
	}
	BindTree(sampleTree(&trace), NewApp(AppConfig{}).Services())
	if len(trace) != 5 || trace[0] != "bind root" {
		t.Fatalf("bind trace = %v", trace)
	}
}

func TestMountTree_ParentsFirst(t *testing.T) {
	var trace []string
	MountTree(sampleTree(&trace))
	want := []string{"mount root", "mount list", "mount a", "mount b", "mount status"}
	if !slices.Equal(trace, want) {
		t.Fatalf("mount trace = %v", trace)
	}
}

func TestDetachTree_UnmountsBeforeUnbind(t *testing.T) {
	var trace []string
	DetachTree(sampleTree(&trace))
	want := []string{
		"unmount a", "unmount b", "unmount list", "unmount status", "unmount root",
		"unbind a", "unbind b", "unbind list", "unbind status", "unbind root",
	}
	if !slices.Equal(trace, want) {
		t.Fatalf("detach trace = %v", trace)
	}
}

func TestScreen_PopLayerDetaches(t *testing.T) {
	var trace []string
	screen := NewScreen(10, 4)
	screen.SetRoot(&nodeWidget{name: "base", trace: &trace})
	screen.PushLayer(&nodeWidget{name: "modal", trace: &trace}, true)
	trace = trace[:0]

	if !screen.PopLayer() {
		t.Fatalf("pop failed")
	}
	if want := []string{"unmount modal", "unbind modal"}; !slices.Equal(trace, want) {
		t.Fatalf("pop trace = %v", trace)
	}
	if screen.PopLayer() {
		t.Fatalf("base layer popped")
	}
}
