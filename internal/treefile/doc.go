// Package treefile reads virtual trees from files for the reconcile
// command.
//
// HTML files hold a single root element and are virtualized as they parse.
// YAML and JSON files hold a node document:
//
//	tag: ul
//	attrs: {id: list}
//	keyed: true
//	children:
//	  - {key: a, tag: li, children: [first]}
//	  - key: b
//	    tagger: row
//	    lazy: {tag: li, on: {click: pick}, children: [second]}
//
// A node has exactly one of text, tag or lazy. A bare scalar child is a
// text node. "lazy" wraps its node in a thunk whose argument is the
// document text, so an unchanged lazy node is never diffed. "tagger"
// wraps the node in a tagger shared by name across the files one Loader
// reads. "ns" accepts svg, mathml or a namespace URI.
package treefile
