package runtime

// Bindable widgets receive app services when attached to a screen.
type Bindable interface {
	Bind(services Services)
}

// Unbindable widgets release app services when removed.
type Unbindable interface {
	Unbind()
}

// Lifecycle is implemented by widgets that start work when mounted, such as
// subscriptions, and stop it on unmount.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Walk visits root and every widget reachable through ChildProvider.
// pre runs on a parent before its children, post after them. Either may be nil.
func Walk(root Widget, pre, post func(Widget)) {
	if root == nil {
		return
	}
	if pre != nil {
		pre(root)
	}
	if children, ok := root.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			Walk(child, pre, post)
		}
	}
	if post != nil {
		post(root)
	}
}

// BindTree binds parents before children. Zero services are ignored.
func BindTree(root Widget, services Services) {
	if services.isZero() {
		return
	}
	Walk(root, func(w Widget) {
		if b, ok := w.(Bindable); ok {
			b.Bind(services)
		}
	}, nil)
}

// UnbindTree unbinds children before parents.
func UnbindTree(root Widget) {
	Walk(root, nil, func(w Widget) {
		if u, ok := w.(Unbindable); ok {
			u.Unbind()
		}
	})
}

// MountTree mounts parents before children.
func MountTree(root Widget) {
	Walk(root, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Mount()
		}
	}, nil)
}

// UnmountTree unmounts children before parents.
func UnmountTree(root Widget) {
	Walk(root, nil, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Unmount()
		}
	})
}

// DetachTree unmounts the whole tree and then unbinds it, so no Unmount
// hook sees released services.
func DetachTree(root Widget) {
	UnmountTree(root)
	UnbindTree(root)
}
