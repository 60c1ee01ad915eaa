package storage

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"saorsa.dev/logic/cidutil"
)

type memCAS struct {
	objects map[cid.Cid][]byte
}

func newMemCAS() *memCAS {
	return &memCAS{objects: map[cid.Cid][]byte{}}
}

func (m *memCAS) Put(bytes []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawBlake3CID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	stored := make([]byte, len(bytes))
	copy(stored, bytes)
	m.objects[id] = stored
	return id, nil
}

func (m *memCAS) Get(id cid.Cid) ([]byte, error) {
	b, ok := m.objects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *memCAS) Has(id cid.Cid) bool {
	_, ok := m.objects[id]
	return ok
}

// badCAS returns CIDs that do not match the bytes written.
type badCAS struct{}

func (badCAS) Put(bytes []byte) (cid.Cid, error) {
	return cidutil.CIDv1RawBlake3CID([]byte("something else"))
}
func (badCAS) Get(id cid.Cid) ([]byte, error) { return nil, ErrNotFound }
func (badCAS) Has(id cid.Cid) bool            { return false }

func TestMultiCASFallback(t *testing.T) {
	primary := newMemCAS()
	secondary := newMemCAS()

	id, err := secondary.Put([]byte("only in secondary"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	multi := MultiCAS{Adapters: []CAS{primary, secondary}}
	b, err := multi.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(b) != "only in secondary" {
		t.Fatalf("unexpected bytes %q", b)
	}
	if !multi.Has(id) {
		t.Fatalf("Has should fall back")
	}

	// Put writes only to the first adapter.
	putID, err := multi.Put([]byte("written"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !primary.Has(putID) {
		t.Fatalf("primary should hold the object")
	}
	if secondary.Has(putID) {
		t.Fatalf("secondary should not hold the object")
	}

	missing, err := cidutil.CIDv1RawBlake3CID([]byte("absent"))
	if err != nil {
		t.Fatalf("CIDv1RawBlake3CID: %v", err)
	}
	if _, err := multi.Get(missing); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReplicatingCASPutAll(t *testing.T) {
	a := newMemCAS()
	b := newMemCAS()
	rep := ReplicatingCAS{Backends: []NamedCAS{
		{Name: "a", CAS: a},
		{Name: "b", CAS: b},
	}}

	payload := []byte("replicate me")
	id, perBackend, err := rep.PutAll(payload)
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	want, err := cidutil.CIDv1RawBlake3CID(payload)
	if err != nil {
		t.Fatalf("CIDv1RawBlake3CID: %v", err)
	}
	if id != want {
		t.Fatalf("canonical CID mismatch: %s vs %s", id, want)
	}
	for name, got := range perBackend {
		if got != want {
			t.Fatalf("backend %s returned %s, want %s", name, got, want)
		}
	}
	if !a.Has(id) || !b.Has(id) {
		t.Fatalf("both backends should hold the object")
	}
}

func TestReplicatingCASDetectsCIDMismatch(t *testing.T) {
	rep := ReplicatingCAS{Backends: []NamedCAS{
		{Name: "good", CAS: newMemCAS()},
		{Name: "bad", CAS: badCAS{}},
	}}
	if _, _, err := rep.PutAll([]byte("payload")); !errors.Is(err, ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
}
