// Package entity binds typed game records to the key-value store.
//
// Each record kind (game, player, vote) declares its fields once: a wire
// name, an encoding, and typed get/set accessors. The binding tracks which
// fields changed since the last load or save, writes only those on Save,
// and refreshes the record's TTL on every save so abandoned state
// self-expires.
package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/dkhalov/caucus/internal/common"
	"github.com/dkhalov/caucus/internal/store"
)

// Field declares one record field: its wire name, its encoding at the store
// boundary, and closures bridging to the record's typed struct field. Set
// must accept exactly the type Decode produces for the field's FieldType.
type Field struct {
	Name string
	Type FieldType
	Get  func() any
	Set  func(v any)
}

// Record is the embeddable base of every persisted entity. A fresh record
// starts with every field pending (so the first Save writes the declared
// defaults); Load replaces them with the stored state.
//
// A Record is owned by the request flow that created it and is not safe for
// concurrent use; the store is the only shared copy.
type Record struct {
	kind   string
	id     string
	fields []Field
	index  map[string]int
	dirty  map[string]struct{}
	found  bool
}

// Init wires the record's identity and schema. An "id" field is declared
// implicitly. Every field starts dirty, matching a newly created entity
// whose defaults have not been persisted yet.
func (r *Record) Init(kind, id string, fields []Field) {
	r.kind = kind
	r.id = id
	r.fields = append([]Field{{
		Name: "id",
		Type: TypeString,
		Get:  func() any { return id },
		Set:  func(any) {},
	}}, fields...)

	r.index = make(map[string]int, len(r.fields))
	r.dirty = make(map[string]struct{}, len(r.fields))
	for i, f := range r.fields {
		r.index[f.Name] = i
		r.dirty[f.Name] = struct{}{}
	}
}

// Kind returns the record kind ("game", "player", "vote").
func (r *Record) Kind() string { return r.kind }

// ID returns the record id.
func (r *Record) ID() string { return r.id }

// Key returns the store key, "kind:id".
func (r *Record) Key() string { return r.kind + ":" + r.id }

// Found reports whether the last Load found the record in the store.
func (r *Record) Found() bool { return r.found }

// MarkDirty flags a field as changed so the next Save writes it. Marking an
// undeclared field is a schema bug and panics.
func (r *Record) MarkDirty(name string) {
	if _, ok := r.index[name]; !ok {
		panic(fmt.Errorf("%w: %s.%s", common.ErrUnknownField, r.kind, name))
	}
	r.dirty[name] = struct{}{}
}

// Load reads every declared field in one batch and decodes it into the
// record. It reports whether the record existed; when it does not, the
// record keeps its pending defaults untouched.
func (r *Record) Load(ctx context.Context, st store.Store) (bool, error) {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}

	raw, err := st.GetFields(ctx, r.Key(), names)
	if err != nil {
		return false, fmt.Errorf("%w: load %s: %v", common.ErrStore, r.Key(), err)
	}
	if len(raw) == 0 {
		return false, nil
	}

	for _, f := range r.fields {
		enc, ok := raw[f.Name]
		if !ok {
			continue
		}
		v, err := Decode(f.Type, enc)
		if err != nil {
			return false, fmt.Errorf("load %s field %s: %w", r.Key(), f.Name, err)
		}
		f.Set(v)
	}

	r.dirty = make(map[string]struct{}, len(r.fields))
	r.found = true
	return true, nil
}

// Save encodes only the pending fields and writes them as one atomic batch,
// refreshing the record's TTL. On success pending folds into the committed
// state and the client-facing delta of what changed is returned; on failure
// pending is left intact so the save can be retried.
func (r *Record) Save(ctx context.Context, st store.Store, ttl time.Duration) (map[string]any, error) {
	if len(r.dirty) == 0 {
		return map[string]any{}, nil
	}

	encoded := make(map[string]string, len(r.dirty))
	delta := make(map[string]any, len(r.dirty))
	for name := range r.dirty {
		f := r.fields[r.index[name]]
		v := f.Get()
		enc, err := Encode(f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("save %s field %s: %w", r.Key(), name, err)
		}
		encoded[name] = enc
		delta[name] = v
	}

	if err := st.SetFields(ctx, r.Key(), encoded, ttl); err != nil {
		return nil, fmt.Errorf("%w: save %s: %v", common.ErrStore, r.Key(), err)
	}

	r.dirty = make(map[string]struct{}, len(r.fields))
	r.found = true
	return delta, nil
}

// Destroy deletes the record from the store. The in-memory values survive
// and every field goes back to pending, so callers can still serialize the
// last known state when telling observers the entity is gone.
func (r *Record) Destroy(ctx context.Context, st store.Store) error {
	if err := st.Delete(ctx, r.Key()); err != nil {
		return fmt.Errorf("%w: destroy %s: %v", common.ErrStore, r.Key(), err)
	}

	for _, f := range r.fields {
		r.dirty[f.Name] = struct{}{}
	}
	r.found = false
	return nil
}

// Serialize returns the merged committed-and-pending view of the record for
// external consumption.
func (r *Record) Serialize() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		out[f.Name] = f.Get()
	}
	return out
}
