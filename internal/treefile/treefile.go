package treefile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/render"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// nodeDoc is one node of a YAML or JSON tree document.
type nodeDoc struct {
	Text     *string           `yaml:"text"`
	Tag      string            `yaml:"tag"`
	NS       string            `yaml:"ns"`
	Attrs    map[string]string `yaml:"attrs"`
	Styles   map[string]string `yaml:"styles"`
	Props    map[string]any    `yaml:"props"`
	On       map[string]string `yaml:"on"`
	Keyed    bool              `yaml:"keyed"`
	Key      string            `yaml:"key"`
	Tagger   string            `yaml:"tagger"`
	Lazy     *nodeDoc          `yaml:"lazy"`
	Children []nodeDoc         `yaml:"children"`

	line, column int
	source       string
}

// UnmarshalYAML records the position of every node and accepts a bare
// scalar as a text node.
func (d *nodeDoc) UnmarshalYAML(value *yaml.Node) error {
	d.line, d.column = value.Line, value.Column
	if value.Kind == yaml.ScalarNode {
		text := value.Value
		d.Text = &text
		return nil
	}

	type plain nodeDoc
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	d.line, d.column = value.Line, value.Column

	if d.Lazy != nil {
		out, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		d.source = string(out)
	}
	return nil
}

// Loader turns tree files into virtual trees. Taggers are shared by name
// across every file a Loader reads, so two documents that name the same
// tagger diff without a Tagger patch.
type Loader struct {
	taggers map[string]*vdom.Tagger
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{taggers: make(map[string]*vdom.Tagger)}
}

// Load reads a tree file. HTML files (.html, .htm) must hold one root
// element; YAML and JSON files (.yaml, .yml, .json) hold a node document.
func (l *Loader) Load(path string) (*vdom.VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeTreeParse).Wrap(err).
			WithLocation(path, 0, 0)
	}
	return l.Parse(path, data)
}

// Parse decodes data as the tree file named path. The extension of path
// selects the format.
func (l *Loader) Parse(path string, data []byte) (*vdom.VNode, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		n, err := dom.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, errors.New(errors.CodeTreeParse).Wrap(err).
				WithLocation(path, 0, 0)
		}
		return render.Virtualize(n), nil

	case ".yaml", ".yml", ".json":
		var doc nodeDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.New(errors.CodeTreeParse).Wrap(err).
				WithLocationFromError(path, err)
		}
		if doc.line == 0 {
			return nil, errors.New(errors.CodeInvalidTree).
				WithDetail("The document is empty.").
				WithLocation(path, 0, 0)
		}
		return l.build(path, &doc)

	default:
		return nil, errors.New(errors.CodeUnsupportedTree).
			WithLocation(path, 0, 0).
			WithSuggestion("Rename the file or convert it to HTML, YAML or JSON")
	}
}

func (l *Loader) tagger(name string) *vdom.Tagger {
	t, ok := l.taggers[name]
	if !ok {
		t = vdom.NewTagger(func(msg any) any {
			return name + "/" + fmt.Sprint(msg)
		})
		l.taggers[name] = t
	}
	return t
}

func invalid(path string, d *nodeDoc, format string, args ...any) error {
	return errors.New(errors.CodeInvalidTree).
		WithDetail(fmt.Sprintf(format, args...)).
		WithLocation(path, d.line, d.column)
}

func (l *Loader) build(path string, d *nodeDoc) (*vdom.VNode, error) {
	kinds := 0
	if d.Text != nil {
		kinds++
	}
	if d.Tag != "" {
		kinds++
	}
	if d.Lazy != nil {
		kinds++
	}
	if kinds != 1 {
		return nil, invalid(path, d, "A node needs exactly one of text, tag or lazy.")
	}

	var v *vdom.VNode
	switch {
	case d.Text != nil:
		v = vdom.Text(*d.Text)

	case d.Lazy != nil:
		inner, err := l.build(path, d.Lazy)
		if err != nil {
			return nil, err
		}
		v = vdom.Lazy([]any{d.source}, func() *vdom.VNode { return inner })

	default:
		var err error
		if v, err = l.element(path, d); err != nil {
			return nil, err
		}
	}

	if d.Tagger != "" {
		v = vdom.Map(l.tagger(d.Tagger), v)
	}
	return v, nil
}

func (l *Loader) element(path string, d *nodeDoc) (*vdom.VNode, error) {
	ns, ok := namespace(d.NS)
	if !ok {
		return nil, invalid(path, d, "Unknown namespace %q.", d.NS)
	}

	var facts []vdom.Fact
	for _, name := range sortedKeys(d.Attrs) {
		facts = append(facts, vdom.Attribute(name, d.Attrs[name]))
	}
	for _, name := range sortedKeys(d.Styles) {
		facts = append(facts, vdom.Style(name, d.Styles[name]))
	}
	for _, name := range sortedKeys(d.Props) {
		facts = append(facts, vdom.Property(name, d.Props[name]))
	}
	for _, name := range sortedKeys(d.On) {
		facts = append(facts, vdom.On(name, d.On[name]))
	}

	if !d.Keyed {
		kids := make([]*vdom.VNode, len(d.Children))
		for i := range d.Children {
			var err error
			if kids[i], err = l.build(path, &d.Children[i]); err != nil {
				return nil, err
			}
		}
		return vdom.NodeNS(ns, d.Tag, facts, kids), nil
	}

	seen := make(map[string]bool, len(d.Children))
	kids := make([]vdom.Keyed, len(d.Children))
	for i := range d.Children {
		c := &d.Children[i]
		switch {
		case c.Key == "":
			return nil, invalid(path, c, "Children of a keyed node need a key.")
		case seen[c.Key]:
			return nil, invalid(path, c, "Duplicate key %q.", c.Key)
		}
		seen[c.Key] = true

		child, err := l.build(path, c)
		if err != nil {
			return nil, err
		}
		kids[i] = vdom.K(c.Key, child)
	}
	return vdom.KeyedNodeNS(ns, d.Tag, facts, kids), nil
}

// namespace resolves the short names svg and mathml; anything else must
// be empty or a full namespace URI.
func namespace(ns string) (string, bool) {
	switch ns {
	case "", "html":
		return "", true
	case "svg":
		return dom.NamespaceSVG, true
	case "mathml":
		return dom.NamespaceMath, true
	}
	return ns, strings.Contains(ns, "://")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
