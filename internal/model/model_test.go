package model

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeModel struct{ closed bool }

func (f *fakeModel) Complete(ctx context.Context, prompt string, opts CompletionOptions) (Completion, error) {
	return Completion{Choices: []Choice{{Text: "ok"}}}, nil
}

func (f *fakeModel) Close() error { f.closed = true; return nil }

func TestAvailability_Ready(t *testing.T) {
	fm := &fakeModel{}
	a := Ready(fm)
	m, ok := a.Model()
	if !ok || m != fm {
		t.Fatalf("expected ready handle")
	}
	if a.Err() != nil {
		t.Fatalf("unexpected err: %v", a.Err())
	}
	if err := a.Close(); err != nil || !fm.closed {
		t.Fatalf("close: err=%v closed=%v", err, fm.closed)
	}
}

func TestAvailability_Unavailable(t *testing.T) {
	reason := errors.New("boom")
	a := Unavailable(reason)
	if _, ok := a.Model(); ok {
		t.Fatalf("expected no handle")
	}
	if !errors.Is(a.Err(), reason) {
		t.Fatalf("err=%v", a.Err())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close on unavailable: %v", err)
	}
}

func TestAvailability_ZeroValue(t *testing.T) {
	var a Availability
	if _, ok := a.Model(); ok {
		t.Fatalf("zero Availability must not be ready")
	}
	if !errors.Is(a.Err(), ErrNotLoaded) {
		t.Fatalf("err=%v", a.Err())
	}
	if !errors.Is(Unavailable(nil).Err(), ErrNotLoaded) {
		t.Fatalf("Unavailable(nil) should default to ErrNotLoaded")
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsModelNotFound(ErrModelNotFound("/x")) {
		t.Fatalf("IsModelNotFound false")
	}
	if IsModelNotFound(errors.New("x")) {
		t.Fatalf("IsModelNotFound true for plain error")
	}
	wrapped := errors.Join(errors.New("ctx"), ErrDependencyUnavailable("no llama"))
	if !IsDependencyUnavailable(wrapped) {
		t.Fatalf("IsDependencyUnavailable should unwrap")
	}
}

func TestReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrModelNotFound("/m.gguf"), ReasonNotFound},
		{fmt.Errorf("load: %w", ErrDependencyUnavailable("no llama")), ReasonRuntimeUnavailable},
		{errors.New("bad magic"), ReasonLoadFailed},
	}
	for _, c := range cases {
		if got := Reason(c.err); got != c.want {
			t.Fatalf("Reason(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
