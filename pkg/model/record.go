package model

// Object is a record of named fields, displayed as "Object N".
type Object struct {
	base
}

// NewObject creates an empty object in the arena.
func NewObject(a *Arena) *Object {
	o := &Object{}
	o.init(a, o, "Object")
	return o
}

// Set stores x under the field name key.
func (o *Object) Set(key string, x any) (*Path, error) {
	return o.setWrapped(key, x)
}

// Frame is a record of local variables, displayed as "Variables N".
type Frame struct {
	base
}

// NewFrame creates an empty variable frame in the arena.
func NewFrame(a *Arena) *Frame {
	f := &Frame{}
	f.init(a, f, "Variables")
	return f
}

// Set stores x under the variable name key.
func (f *Frame) Set(key string, x any) (*Path, error) {
	return f.setWrapped(key, x)
}
