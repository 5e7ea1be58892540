package present

import (
	"sort"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/cssval"
	"github.com/roach88/keyframe/internal/ir"
)

// Element is one animated presentation element.
type Element struct {
	id    string
	attrs map[string]string
	style map[string]string

	// transform is parsed from the transform attribute on first use.
	transform *ir.Transform
	motion    *ir.MotionPath
}

func newElement(id string) *Element {
	return &Element{
		id:    id,
		attrs: make(map[string]string),
		style: make(map[string]string),
	}
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

// Style returns an inline style property.
func (e *Element) Style(name string) (string, bool) {
	v, ok := e.style[name]
	return v, ok
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(name, value string) {
	e.style[name] = value
}

// AttrNames returns the attribute names in sorted order.
func (e *Element) AttrNames() []string {
	return sortedKeys(e.attrs)
}

// StyleNames returns the style property names in sorted order.
func (e *Element) StyleNames() []string {
	return sortedKeys(e.style)
}

// Transform returns the channel values currently held for the element.
func (e *Element) Transform() ir.Transform {
	e.ensureTransform()
	return *e.transform
}

func (e *Element) ensureTransform() {
	if e.transform != nil {
		return
	}
	tr := cssval.ParseTransform(e.attrs["transform"])
	e.transform = &tr
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Document is a set of elements addressed by id.
//
// Not thread-safe: it is written from the scheduler's goroutine.
type Document struct {
	elements map[string]*Element
	order    []string
	sinks    []Sink

	frame int64
	time  float64
}

// NewDocument creates an empty document reporting writes to sinks.
func NewDocument(sinks ...Sink) *Document {
	return &Document{
		elements: make(map[string]*Element),
		sinks:    sinks,
	}
}

// FromScene creates a document with the scene's elements in their
// authored state. Targets without an element entry become empty elements.
func FromScene(s *compiler.Scene, sinks ...Sink) *Document {
	d := NewDocument(sinks...)
	for _, se := range s.Elements {
		el := d.Element(se.ID)
		for k, v := range se.Attrs {
			el.SetAttr(k, v)
		}
		for k, v := range se.Style {
			el.SetStyle(k, v)
		}
	}
	for _, st := range s.Targets {
		d.Element(st.ID)
	}
	return d
}

// Element returns the element with the given id, creating it if needed.
func (d *Document) Element(id string) *Element {
	if el, ok := d.elements[id]; ok {
		return el
	}
	el := newElement(id)
	d.elements[id] = el
	d.order = append(d.order, id)
	return el
}

// Lookup returns an existing element.
func (d *Document) Lookup(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// Target resolves an element id to an engine target. Its signature fits
// compiler.Scene.Compile.
func (d *Document) Target(id string) ir.Target {
	return d.Element(id)
}

// Elements returns the elements in creation order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.elements[id])
	}
	return out
}

// AddSink registers another sink.
func (d *Document) AddSink(s Sink) {
	d.sinks = append(d.sinks, s)
}

// BeginFrame stamps subsequent writes with a frame number and time.
func (d *Document) BeginFrame(frame int64, t float64) {
	d.frame = frame
	d.time = t
}
