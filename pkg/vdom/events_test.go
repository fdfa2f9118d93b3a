package vdom

import (
	"errors"
	"testing"

	"github.com/vango-dev/reconcile/pkg/dom"
)

func TestHandlerKindString(t *testing.T) {
	tests := []struct {
		kind HandlerKind
		want string
	}{
		{HandlerNormal, "Normal"},
		{HandlerMayStopPropagation, "MayStopPropagation"},
		{HandlerMayPreventDefault, "MayPreventDefault"},
		{HandlerCustom, "Custom"},
		{HandlerKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("HandlerKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecoderEqual(t *testing.T) {
	type payload struct{ n int }
	tg := NewTagger(func(m any) any { return m })
	own := NewDecoder(func(*dom.Event) (Decoded, error) { return Decoded{}, nil })
	double := func(v any) any { return v }

	tests := []struct {
		name string
		a, b *Decoder
		want bool
	}{
		{"same succeed", Succeed("save"), Succeed("save"), true},
		{"different succeed", Succeed("save"), Succeed("load"), false},
		{"different scalar types", Succeed(1), Succeed("1"), false},
		{"struct message", Succeed(payload{1}), Succeed(payload{1}), false},
		{"same field", Field("detail", "x"), Field("detail", "x"), true},
		{"different field", Field("a"), Field("b"), false},
		{"nested path vs dotted name", Field("a", "b"), Field("a.b"), false},
		{"typed nested path vs dotted name", StringField("a", "b"), StringField("a.b"), false},
		{"target value", TargetValue(), TargetValue(), true},
		{"flags", WithStopPropagation(Succeed(1), true), WithStopPropagation(Succeed(1), true), true},
		{"flag values", WithPreventDefault(Succeed(1), true), WithPreventDefault(Succeed(1), false), false},
		{"custom decoder with itself", own, own, true},
		{"custom decoders", own, NewDecoder(own.decode), false},
		{"mapped decoders", MapDecoder(double, Succeed(1)), MapDecoder(double, Succeed(1)), false},
		{"tagged mapping", mapDecoded(tg, Succeed(1)), mapDecoded(tg, Succeed(1)), true},
		{"nil", nil, Succeed(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNilDecoder(t *testing.T) {
	ev := dom.NewEvent("click", nil)

	tests := []struct {
		name string
		d    *Decoder
	}{
		{"nil", nil},
		{"stop propagation", WithStopPropagation(nil, true)},
		{"prevent default", WithPreventDefault(nil, true)},
		{"mapped", MapDecoder(func(v any) any { return v }, nil)},
		{"tagged", mapDecoded(NewTagger(func(m any) any { return m }), nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.d.Decode(ev); !errors.Is(err, ErrNoDecoder) {
				t.Errorf("err = %v, want ErrNoDecoder", err)
			}
			if tt.d.Key() != "" {
				t.Errorf("Key() = %q, want empty", tt.d.Key())
			}
		})
	}
}

func TestDecodeTargetValue(t *testing.T) {
	input := dom.NewElement("input")
	input.SetProp("value", "hello")
	ev := dom.NewEvent("input", nil)
	ev.Target = input

	got, err := TargetValue().Decode(ev)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Message != "hello" {
		t.Errorf("Message = %v, want hello", got.Message)
	}

	input.SetProp("value", 3)
	if _, err := TargetValue().Decode(ev); !errors.Is(err, ErrWrongType) {
		t.Errorf("err = %v, want ErrWrongType", err)
	}

	if _, err := Field("missing").Decode(ev); !errors.Is(err, ErrNoField) {
		t.Errorf("err = %v, want ErrNoField", err)
	}
}

func TestHandlerResolveMasksFlags(t *testing.T) {
	both := WithPreventDefault(WithStopPropagation(Succeed("m"), true), true)
	ev := dom.NewEvent("click", nil)

	tests := []struct {
		handler     Handler
		wantStop    bool
		wantPrevent bool
	}{
		{NormalHandler(both), false, false},
		{StopPropagationHandler(both), true, false},
		{PreventDefaultHandler(both), false, true},
		{CustomHandler(both), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.handler.Kind.String(), func(t *testing.T) {
			d, err := tt.handler.Resolve(ev)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if d.Message != "m" {
				t.Errorf("Message = %v, want m", d.Message)
			}
			if d.StopPropagation != tt.wantStop || d.PreventDefault != tt.wantPrevent {
				t.Errorf("flags = (%v, %v), want (%v, %v)", d.StopPropagation, d.PreventDefault, tt.wantStop, tt.wantPrevent)
			}
		})
	}

	if _, err := (Handler{}).Resolve(ev); !errors.Is(err, ErrNoDecoder) {
		t.Errorf("err = %v, want ErrNoDecoder", err)
	}
}

func TestMapFact(t *testing.T) {
	tg := NewTagger(func(m any) any { return "wrapped:" + m.(string) })
	f := MapFact(tg, OnClick("go"))

	d, err := f.Handler.Resolve(dom.NewEvent("click", nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Message != "wrapped:go" {
		t.Errorf("Message = %v, want wrapped:go", d.Message)
	}

	id := ID("x")
	if got := MapFact(tg, id); got.Name != "id" || got.Value != "x" {
		t.Errorf("MapFact(non-event) = %+v, want unchanged", got)
	}
}

func TestOnInput(t *testing.T) {
	f := OnInput(func(s string) any { return "typed:" + s })
	if f.Name != "input" || f.Handler.Kind != HandlerMayStopPropagation {
		t.Fatalf("OnInput = %+v", f)
	}

	ev := dom.NewEvent("input", map[string]any{"target": map[string]any{"value": "abc"}})
	d, err := f.Handler.Resolve(ev)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Message != "typed:abc" || !d.StopPropagation {
		t.Errorf("Resolve = %+v", d)
	}
}

func TestOnSubmitPreventsDefault(t *testing.T) {
	f := OnSubmit("send")
	d, err := f.Handler.Resolve(dom.NewEvent("submit", nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !d.PreventDefault || f.Handler.Kind.Passive() {
		t.Errorf("OnSubmit should prevent default with an active listener")
	}
}
