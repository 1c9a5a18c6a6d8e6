package sink

import (
	"context"
	"fmt"
	"testing"

	"github.com/nmarchais/selekt/core/model"
)

type recordingSink struct {
	name   string
	writes int
	closed bool
	fail   bool
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(context.Context, []model.Record) error {
	if r.fail {
		return fmt.Errorf("%s: write failed", r.name)
	}
	r.writes++
	return nil
}

func (r *recordingSink) Close() error {
	r.closed = true
	return nil
}

func TestMultiSink_FansOut(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	m := NewMultiSink(a, b)

	recs := []model.Record{{ID: "r1", Stream: "s"}}
	if err := m.Write(context.Background(), recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	if a.writes != 1 || b.writes != 1 {
		t.Fatalf("writes = (%d, %d), want (1, 1)", a.writes, b.writes)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatal("not all sinks closed")
	}
}

func TestMultiSink_StopsOnFirstError(t *testing.T) {
	a := &recordingSink{name: "a", fail: true}
	b := &recordingSink{name: "b"}
	m := NewMultiSink(a, b)

	if err := m.Write(context.Background(), nil); err == nil {
		t.Fatal("expected write error")
	}
	if b.writes != 0 {
		t.Fatalf("second sink written after error: %d", b.writes)
	}
}
