package lang

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// ScopeID addresses a scope record within a [Tree].
type ScopeID int

// NoScope is the parent of the root scope.
const NoScope ScopeID = -1

func (id ScopeID) String() string { return "scope#" + strconv.Itoa(int(id)) }

// Binding is a value stored under a name in exactly one scope.
type Binding struct {
	Value   Primitive
	Mutable bool
}

type scopeRecord struct {
	parent   ScopeID
	children []ScopeID
	bindings map[string]Binding
	released bool
}

// Tree is an arena of scopes forming a rooted tree. Each scope owns its
// local bindings and the children it created, and refers to its parent by
// ID.
//
// Lookup and reassignment search a scope and then its ancestors. Released
// scope IDs are never reused, so a stale ID is always rejected with
// [ErrReleasedScope].
//
// A Tree is not safe for concurrent use.
type Tree struct {
	scopes []scopeRecord
}

// NewTree creates a tree holding only a root scope.
func NewTree() *Tree {
	t := &Tree{scopes: make([]scopeRecord, 0, 8)}
	t.scopes = append(t.scopes, scopeRecord{parent: NoScope})

	return t
}

// Root returns the ID of the root scope.
func (t *Tree) Root() ScopeID { return 0 }

// Len returns the number of scopes that have not been released.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	n := 0

	for i := range t.scopes {
		if !t.scopes[i].released {
			n++
		}
	}

	return n
}

func (t *Tree) record(id ScopeID) (*scopeRecord, error) {
	if t == nil || id < 0 || int(id) >= len(t.scopes) {
		return nil, ErrReleasedScope.With(slog.String("scope", id.String()))
	}

	rec := &t.scopes[id]
	if rec.released {
		return nil, ErrReleasedScope.With(slog.String("scope", id.String()))
	}

	return rec, nil
}

// NewChild creates a scope whose parent is parent.
func (t *Tree) NewChild(parent ScopeID) (ScopeID, error) {
	if _, err := t.record(parent); err != nil {
		return NoScope, err
	}

	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, scopeRecord{parent: parent})
	t.scopes[parent].children = append(t.scopes[parent].children, id)

	return id, nil
}

// Release destroys the scope and all of its descendants and detaches it
// from its parent. The root scope cannot be released.
func (t *Tree) Release(id ScopeID) error {
	rec, err := t.record(id)
	if err != nil {
		return err
	}

	if rec.parent == NoScope {
		return ErrReleasedScope.With(
			slog.String("scope", id.String()),
			slog.String("reason", "root scope cannot be released"),
		)
	}

	parent := &t.scopes[rec.parent]
	parent.children = slices.DeleteFunc(parent.children, func(c ScopeID) bool {
		return c == id
	})

	t.release(id)

	return nil
}

func (t *Tree) release(id ScopeID) {
	rec := &t.scopes[id]

	for _, child := range rec.children {
		t.release(child)
	}

	*rec = scopeRecord{parent: rec.parent, released: true}
}

// Parent returns the parent of id, or false for the root.
func (t *Tree) Parent(id ScopeID) (ScopeID, bool) {
	rec, err := t.record(id)
	if err != nil || rec.parent == NoScope {
		return NoScope, false
	}

	return rec.parent, true
}

// Children returns the live children of id in creation order.
func (t *Tree) Children(id ScopeID) []ScopeID {
	rec, err := t.record(id)
	if err != nil {
		return nil
	}

	return slices.Clone(rec.children)
}

// Declare binds name in scope id. A name may be declared at most once per
// scope; declaring it in a descendant shadows the ancestor's binding.
func (t *Tree) Declare(id ScopeID, name string, value Primitive, mutable bool) error {
	rec, err := t.record(id)
	if err != nil {
		return err
	}

	if _, ok := rec.bindings[name]; ok {
		return ErrDuplicateDeclaration.With(slog.String("name", name))
	}

	if rec.bindings == nil {
		rec.bindings = make(map[string]Binding)
	}

	rec.bindings[name] = Binding{Value: value, Mutable: mutable}

	return nil
}

// Resolve finds the scope that owns the binding visible from id under name.
func (t *Tree) Resolve(id ScopeID, name string) (ScopeID, Binding, error) {
	if _, err := t.record(id); err != nil {
		return NoScope, Binding{}, err
	}

	for cur := id; cur != NoScope; cur = t.scopes[cur].parent {
		if b, ok := t.scopes[cur].bindings[name]; ok {
			return cur, b, nil
		}
	}

	return NoScope, Binding{}, ErrUndefinedVariable.With(slog.String("name", name))
}

// Assign overwrites the value of the binding visible from id under name, in
// the scope that owns it.
func (t *Tree) Assign(id ScopeID, name string, value Primitive) error {
	owner, b, err := t.Resolve(id, name)
	if err != nil {
		return err
	}

	if !b.Mutable {
		return ErrImmutableBinding.With(slog.String("name", name))
	}

	t.scopes[owner].bindings[name] = Binding{Value: value, Mutable: true}

	return nil
}

// Lookup returns the value visible from id under name.
func (t *Tree) Lookup(id ScopeID, name string) (Primitive, error) {
	_, b, err := t.Resolve(id, name)

	return b.Value, err
}

// Bindings returns a copy of the bindings local to id.
func (t *Tree) Bindings(id ScopeID) map[string]Binding {
	rec, err := t.record(id)
	if err != nil {
		return nil
	}

	return maps.Clone(rec.bindings)
}

// Visible returns the value of every binding visible from id, with inner
// bindings shadowing outer ones.
func (t *Tree) Visible(id ScopeID) map[string]Primitive {
	if _, err := t.record(id); err != nil {
		return nil
	}

	vis := make(map[string]Primitive)

	for cur := id; cur != NoScope; cur = t.scopes[cur].parent {
		for name, b := range t.scopes[cur].bindings {
			if _, ok := vis[name]; !ok {
				vis[name] = b.Value
			}
		}
	}

	return vis
}

// Names returns the sorted names visible from id.
func (t *Tree) Names(id ScopeID) []string {
	return slices.Sorted(maps.Keys(t.Visible(id)))
}

// Scope is a handle to one scope of a [Tree]. The zero value is invalid;
// create one with [NewScope] or [Tree.Scope].
type Scope struct {
	tree *Tree
	id   ScopeID
}

// NewScope creates a new tree and returns its root scope.
func NewScope() Scope {
	t := NewTree()

	return Scope{tree: t, id: t.Root()}
}

// Scope returns a handle to scope id.
func (t *Tree) Scope(id ScopeID) Scope { return Scope{tree: t, id: id} }

// ID returns the scope's ID within its tree.
func (s Scope) ID() ScopeID { return s.id }

// Tree returns the tree that owns the scope.
func (s Scope) Tree() *Tree { return s.tree }

// IsRoot reports whether s is the root of its tree.
func (s Scope) IsRoot() bool { return s.tree != nil && s.id == s.tree.Root() }

// Child creates a new child scope of s.
func (s Scope) Child() (Scope, error) {
	id, err := s.tree.NewChild(s.id)
	if err != nil {
		return Scope{}, err
	}

	return Scope{tree: s.tree, id: id}, nil
}

// Release destroys s and all of its descendants.
func (s Scope) Release() error { return s.tree.Release(s.id) }

// Parent returns the parent of s, or false for the root.
func (s Scope) Parent() (Scope, bool) {
	id, ok := s.tree.Parent(s.id)
	if !ok {
		return Scope{}, false
	}

	return Scope{tree: s.tree, id: id}, true
}

// Declare binds name in s. See [Tree.Declare].
func (s Scope) Declare(name string, value Primitive, mutable bool) error {
	return s.tree.Declare(s.id, name, value, mutable)
}

// Assign reassigns the binding visible from s. See [Tree.Assign].
func (s Scope) Assign(name string, value Primitive) error {
	return s.tree.Assign(s.id, name, value)
}

// Lookup returns the value visible from s. See [Tree.Lookup].
func (s Scope) Lookup(name string) (Primitive, error) {
	return s.tree.Lookup(s.id, name)
}

// Resolve returns the owning scope and binding visible from s.
func (s Scope) Resolve(name string) (Scope, Binding, error) {
	id, b, err := s.tree.Resolve(s.id, name)
	if err != nil {
		return Scope{}, Binding{}, err
	}

	return Scope{tree: s.tree, id: id}, b, nil
}

// Bindings returns a copy of the bindings local to s.
func (s Scope) Bindings() map[string]Binding { return s.tree.Bindings(s.id) }

// Visible returns every value visible from s.
func (s Scope) Visible() map[string]Primitive { return s.tree.Visible(s.id) }

// Names returns the sorted names visible from s.
func (s Scope) Names() []string { return s.tree.Names(s.id) }

// ToMap returns the native Go value (see [Primitive.Native]) of every
// binding visible from s.
func (s Scope) ToMap() map[string]any {
	vis := s.Visible()
	m := make(map[string]any, len(vis))

	for name, v := range vis {
		m[name] = v.Native()
	}

	return m
}
