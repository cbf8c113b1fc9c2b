// Package block defines the persisted structured-content model.
//
// A document is an ordered sequence of blocks. Each block carries a stable
// _key and a _type. Text blocks (Type "block") contain ordered children
// (text spans and inline objects) plus markDefs, the block-scoped annotation
// records that span marks can reference. Every other type is an opaque
// block object whose payload lives in Attrs.
//
// Keys join the persisted sequence to the live editable tree in package doc;
// they are never reused and never change for the lifetime of a node.
package block
