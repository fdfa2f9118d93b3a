// Package protocol encodes patch lists into a compact binary form for
// logging, inspection and transport by callers.
//
// Values are framed with protobuf-style varints; signed values use ZigZag
// so small negative numbers stay short. A patch list is written as
//
//	[count] { [op byte] [index uvarint] [payload] }...
//
// where the payload depends on the op. Nodes, handlers and taggers do not
// survive encoding: a Record keeps node labels, fact tokens, keys, insert
// positions and nested sub-patch lists.
//
// Decoding treats input as untrusted. String lengths are capped at
// DefaultMaxAllocation, list lengths at MaxCollectionCount and nesting at
// MaxPatchDepth.
package protocol
