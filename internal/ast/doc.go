// Package ast defines the template syntax tree.
//
// Every node embeds Base, which carries the source Location and the
// whitespace-control flags taken from the delimiters around the node.
// Extensions may declare their own node types: anything embedding Base and
// implementing Type satisfies Node, and the generic helpers (Children, Walk)
// discover child nodes by reflection so traversal and dumping work for them
// too.
package ast
