package vdom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// HandlerKind selects which decoded flags a handler honours.
type HandlerKind uint8

const (
	HandlerNormal             HandlerKind = iota // Message only
	HandlerMayStopPropagation                    // Message + stopPropagation
	HandlerMayPreventDefault                     // Message + preventDefault
	HandlerCustom                                // Message + both flags
)

// String returns the string representation of the HandlerKind.
func (k HandlerKind) String() string {
	switch k {
	case HandlerNormal:
		return "Normal"
	case HandlerMayStopPropagation:
		return "MayStopPropagation"
	case HandlerMayPreventDefault:
		return "MayPreventDefault"
	case HandlerCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Passive returns true for handlers that can never prevent the default action.
func (k HandlerKind) Passive() bool {
	return k == HandlerNormal || k == HandlerMayStopPropagation
}

// Handler is an event handler: a decoder plus the flags it may set.
type Handler struct {
	Kind    HandlerKind
	Decoder *Decoder
}

// NormalHandler creates a handler that only produces a message.
func NormalHandler(d *Decoder) Handler { return Handler{Kind: HandlerNormal, Decoder: d} }

// StopPropagationHandler creates a handler that may stop propagation.
func StopPropagationHandler(d *Decoder) Handler {
	return Handler{Kind: HandlerMayStopPropagation, Decoder: d}
}

// PreventDefaultHandler creates a handler that may prevent the default action.
func PreventDefaultHandler(d *Decoder) Handler {
	return Handler{Kind: HandlerMayPreventDefault, Decoder: d}
}

// CustomHandler creates a handler that may set both flags.
func CustomHandler(d *Decoder) Handler { return Handler{Kind: HandlerCustom, Decoder: d} }

// Resolve runs the decoder and keeps only the flags the handler kind honours.
func (h Handler) Resolve(ev *dom.Event) (Decoded, error) {
	if h.Decoder == nil {
		return Decoded{}, ErrNoDecoder
	}
	d, err := h.Decoder.Decode(ev)
	if err != nil {
		return Decoded{}, err
	}
	switch h.Kind {
	case HandlerNormal:
		d.StopPropagation, d.PreventDefault = false, false
	case HandlerMayStopPropagation:
		d.PreventDefault = false
	case HandlerMayPreventDefault:
		d.StopPropagation = false
	}
	return d, nil
}

// equalHandlers reports whether two handlers would behave identically.
func equalHandlers(a, b Handler) bool {
	return a.Kind == b.Kind && a.Decoder.Equal(b.Decoder)
}

// Decoding errors.
var (
	ErrNoDecoder = errors.New("vdom: handler has no decoder")
	ErrNoField   = errors.New("vdom: event field not found")
	ErrWrongType = errors.New("vdom: event field has unexpected type")
)

// Decoded is the result of decoding a raw event.
type Decoded struct {
	Message         any
	StopPropagation bool
	PreventDefault  bool
}

// Decoder extracts a message from a raw event. Decoders built by the
// constructors in this package carry a structural key, so two decoders
// built from the same arguments compare equal; decoders built with
// NewDecoder compare by pointer only.
type Decoder struct {
	key    string
	decode func(ev *dom.Event) (Decoded, error)
}

// NewDecoder creates a decoder from fn. It is equal only to itself.
func NewDecoder(fn func(ev *dom.Event) (Decoded, error)) *Decoder {
	return &Decoder{decode: fn}
}

// Decode runs the decoder. A nil decoder fails with ErrNoDecoder.
func (d *Decoder) Decode(ev *dom.Event) (Decoded, error) {
	if d == nil || d.decode == nil {
		return Decoded{}, ErrNoDecoder
	}
	return d.decode(ev)
}

// Key returns the structural identity of the decoder, or "" if it only has
// pointer identity.
func (d *Decoder) Key() string {
	if d == nil {
		return ""
	}
	return d.key
}

// Equal reports whether two decoders are the same decoder or structurally
// equal.
func (d *Decoder) Equal(other *Decoder) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	return d.key != "" && d.key == other.key
}

// Succeed decodes every event to msg.
func Succeed(msg any) *Decoder {
	return &Decoder{
		key: scalarKey("succeed", msg),
		decode: func(*dom.Event) (Decoded, error) {
			return Decoded{Message: msg}, nil
		},
	}
}

// Field decodes the value found at path in the event payload.
func Field(path ...string) *Decoder {
	return &Decoder{
		key: fmt.Sprintf("field:%q", path),
		decode: func(ev *dom.Event) (Decoded, error) {
			v, ok := ev.Lookup(path...)
			if !ok {
				return Decoded{}, fmt.Errorf("%w: %s", ErrNoField, strings.Join(path, "."))
			}
			return Decoded{Message: v}, nil
		},
	}
}

// StringField decodes a string found at path.
func StringField(path ...string) *Decoder {
	return typedField[string]("string", path)
}

// BoolField decodes a bool found at path.
func BoolField(path ...string) *Decoder {
	return typedField[bool]("bool", path)
}

func typedField[T any](typ string, path []string) *Decoder {
	inner := Field(path...)
	return &Decoder{
		key: typ + ":" + inner.key,
		decode: func(ev *dom.Event) (Decoded, error) {
			d, err := inner.Decode(ev)
			if err != nil {
				return Decoded{}, err
			}
			if _, ok := d.Message.(T); !ok {
				return Decoded{}, fmt.Errorf("%w: %s is %T, want %s", ErrWrongType, strings.Join(path, "."), d.Message, typ)
			}
			return d, nil
		},
	}
}

// TargetValue decodes event.target.value as a string.
func TargetValue() *Decoder { return StringField("target", "value") }

// TargetChecked decodes event.target.checked as a bool.
func TargetChecked() *Decoder { return BoolField("target", "checked") }

// MapDecoder transforms the message produced by d. The result compares by
// pointer only, because fn has no identity of its own. Wrapping a nil
// decoder yields one that fails with ErrNoDecoder.
func MapDecoder(fn func(any) any, d *Decoder) *Decoder {
	return NewDecoder(func(ev *dom.Event) (Decoded, error) {
		out, err := d.Decode(ev)
		if err != nil {
			return Decoded{}, err
		}
		out.Message = fn(out.Message)
		return out, nil
	})
}

// WithStopPropagation sets the stopPropagation flag on every decode.
func WithStopPropagation(d *Decoder, stop bool) *Decoder {
	return withFlags(d, fmt.Sprintf("stop(%t)", stop), func(out *Decoded) { out.StopPropagation = stop })
}

// WithPreventDefault sets the preventDefault flag on every decode.
func WithPreventDefault(d *Decoder, prevent bool) *Decoder {
	return withFlags(d, fmt.Sprintf("prevent(%t)", prevent), func(out *Decoded) { out.PreventDefault = prevent })
}

func withFlags(d *Decoder, tag string, set func(*Decoded)) *Decoder {
	key := ""
	if d.Key() != "" {
		key = tag + ":" + d.Key()
	}
	return &Decoder{
		key: key,
		decode: func(ev *dom.Event) (Decoded, error) {
			out, err := d.Decode(ev)
			if err != nil {
				return Decoded{}, err
			}
			set(&out)
			return out, nil
		},
	}
}

// mapDecoded maps a decoder's messages through a tagger. The result is
// structurally equal to another mapping of an equal decoder through the
// same tagger.
func mapDecoded(t *Tagger, d *Decoder) *Decoder {
	key := ""
	if d.Key() != "" {
		key = fmt.Sprintf("map(%p):%s", t, d.Key())
	}
	return &Decoder{
		key: key,
		decode: func(ev *dom.Event) (Decoded, error) {
			out, err := d.Decode(ev)
			if err != nil {
				return Decoded{}, err
			}
			out.Message = t.Apply(out.Message)
			return out, nil
		},
	}
}

// scalarKey returns a structural key for scalar messages and "" otherwise.
func scalarKey(prefix string, v any) string {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%s:%T:%v", prefix, v, v)
	default:
		return ""
	}
}

// Event helpers. Messages are plain values; the decoders built here are
// structural, so re-rendering with equal messages does not touch listeners.

// On declares a normal handler for event name that always produces msg.
func On(name string, msg any) Fact {
	return Event(name, NormalHandler(Succeed(msg)))
}

// OnClick handles click events.
func OnClick(msg any) Fact { return On("click", msg) }

// OnDoubleClick handles dblclick events.
func OnDoubleClick(msg any) Fact { return On("dblclick", msg) }

// OnMouseDown handles mousedown events.
func OnMouseDown(msg any) Fact { return On("mousedown", msg) }

// OnMouseUp handles mouseup events.
func OnMouseUp(msg any) Fact { return On("mouseup", msg) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(msg any) Fact { return On("mouseenter", msg) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(msg any) Fact { return On("mouseleave", msg) }

// OnFocus handles focus events.
func OnFocus(msg any) Fact { return On("focus", msg) }

// OnBlur handles blur events.
func OnBlur(msg any) Fact { return On("blur", msg) }

// OnInput handles input events, passing event.target.value to tag. Input
// handlers stop propagation so the update is applied synchronously.
func OnInput(tag func(string) any) Fact {
	d := MapDecoder(func(v any) any { return tag(v.(string)) }, TargetValue())
	return Event("input", StopPropagationHandler(WithStopPropagation(d, true)))
}

// OnCheck handles change events on checkboxes, passing event.target.checked.
func OnCheck(tag func(bool) any) Fact {
	d := MapDecoder(func(v any) any { return tag(v.(bool)) }, TargetChecked())
	return Event("change", NormalHandler(d))
}

// OnSubmit handles form submission and always prevents the default action.
func OnSubmit(msg any) Fact {
	return Event("submit", PreventDefaultHandler(WithPreventDefault(Succeed(msg), true)))
}
