package model

import "github.com/aretw0/tracer/pkg/domain"

// TreeNode is a binary tree node displayed as "Node N", with a value slot and
// left/right child pointers. Tree nodes are always top-level.
type TreeNode struct {
	base
	color string
}

// NewTreeNode creates a childless node holding value.
func NewTreeNode(a *Arena, value any) (*TreeNode, error) {
	n := &TreeNode{color: defaultVertexColor}
	n.init(a, n, "Node")
	if err := a.Add(n); err != nil {
		return nil, err
	}
	if _, err := n.Set("value", value); err != nil {
		return nil, err
	}
	if _, err := n.store("left", Null()); err != nil {
		return nil, err
	}
	if _, err := n.store("right", Null()); err != nil {
		return nil, err
	}
	return n, nil
}

// Set assigns one of "value", "left" or "right".
// Children must be nil, null, a tree node or a Ref to one.
func (n *TreeNode) Set(key string, x any) (*Path, error) {
	switch key {
	case "value":
		return n.setWrapped(key, x)
	case "left", "right":
		v, err := n.child(x)
		if err != nil {
			return nil, err
		}
		return n.store(key, v)
	}
	return nil, domain.ConfigurationError("%s has no field %q", n.Name(), key)
}

// Delete is not supported on tree nodes; assign null to a child instead.
func (n *TreeNode) Delete(string) bool { return false }

func (n *TreeNode) child(x any) (Value, error) {
	if x == nil {
		return Null(), nil
	}
	if c, ok := x.(*TreeNode); ok && c == nil {
		return Null(), nil
	}
	v, err := n.arena.Wrap(x)
	if err != nil {
		return Value{}, err
	}
	switch {
	case v.kind == KindNull:
		return v, nil
	case v.kind == KindRef:
		if _, ok := v.Node().(*TreeNode); ok {
			return v, nil
		}
	}
	return Value{}, domain.ConfigurationError("child of %s must be a tree node or null, got %s", n.Name(), v)
}

// Value returns the value slot.
func (n *TreeNode) Value() *Path { return n.slots["value"] }

// Left returns the left child slot.
func (n *TreeNode) Left() *Path { return n.slots["left"] }

// Right returns the right child slot.
func (n *TreeNode) Right() *Path { return n.slots["right"] }

// LeftNode returns the left child, or nil.
func (n *TreeNode) LeftNode() *TreeNode { return asTreeNode(n.Left().value) }

// RightNode returns the right child, or nil.
func (n *TreeNode) RightNode() *TreeNode { return asTreeNode(n.Right().value) }

// SetValue stores x in the value slot.
func (n *TreeNode) SetValue(x any) error {
	_, err := n.Set("value", x)
	return err
}

// SetLeft points the left child at x.
func (n *TreeNode) SetLeft(x any) error {
	_, err := n.Set("left", x)
	return err
}

// SetRight points the right child at x.
func (n *TreeNode) SetRight(x any) error {
	_, err := n.Set("right", x)
	return err
}

// Color returns the display color.
func (n *TreeNode) Color() string { return n.color }

// SetColor changes the display color.
func (n *TreeNode) SetColor(c string) {
	n.color = c
	if !n.arena.silent && n.arena.renderer != nil {
		n.arena.renderer.Place(n)
	}
}

func asTreeNode(v Value) *TreeNode {
	t, _ := v.Node().(*TreeNode)
	return t
}
