package vdom

import (
	"strings"

	"github.com/vango-dev/reconcile/pkg/dom"
)

// Identity attributes

// ID sets the id attribute.
func ID(id string) Fact { return Attribute("id", id) }

// Class adds classes, joining multiple classes with spaces. Repeated Class
// facts on one element accumulate.
func Class(classes ...string) Fact { return Attribute("class", strings.Join(classes, " ")) }

// ClassName sets the className property. Repeated ClassName facts accumulate.
func ClassName(classes ...string) Fact { return Property("className", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Fact { return Attribute("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Fact { return Attribute("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Fact { return Attribute("aria-label", label) }

// Links and media

// Href sets the href attribute. javascript: URLs are blanked.
func Href(url string) Fact { return Attribute("href", url) }

// Src sets the src attribute. javascript: URLs are blanked.
func Src(url string) Fact { return Attribute("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Fact { return Attribute("alt", text) }

// Title sets the title attribute.
func Title(text string) Fact { return Attribute("title", text) }

// XLinkHref sets xlink:href on SVG elements.
func XLinkHref(url string) Fact { return AttributeNS(dom.NamespaceXLink, "href", url) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Fact { return Attribute("type", t) }

// Name sets the name attribute.
func Name(name string) Fact { return Attribute("name", name) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Fact { return Attribute("placeholder", text) }

// For sets the htmlFor property.
func For(id string) Fact { return Property("htmlFor", id) }

// Value sets the value property. It is re-applied on every diff because
// user input changes the live value behind the tree's back.
func Value(v string) Fact { return Property("value", v) }

// Checked sets the checked property. Like Value it is always re-applied.
func Checked(checked bool) Fact { return Property("checked", checked) }

// Disabled sets the disabled property.
func Disabled(disabled bool) Fact { return Property("disabled", disabled) }

// TabIndex sets the tabIndex property.
func TabIndex(i int) Fact { return Property("tabIndex", i) }
