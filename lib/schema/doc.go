// Package schema describes arena layouts at runtime. It parses a small type language into a tree
// of Nodes, compiles Nodes into dynamic arena types whose views are navigable without generated
// code, plans buffers for them and generates Go source for named definitions.
//
// Type Language:
//
//	u8 i8 bool u16 i16 u32 i32 u64 i64 f32 f64   fixed-size scalars
//	char                                          unicode scalar value (u32 code point)
//	bytes[n] str[n]                               length-prefixed byte strings
//	unit                                          the empty value
//	list<T>[n]                                    capacity-prefixed list of T
//	record{name: T, other: T}                     fields concatenated in order
//	union{a: T | b: T}                            tagged union, sized to its active variant
//	static{a: T | b: T}                           tagged union, sized to its largest variant
//	point                                         reference to a registered definition
//
// The optional [n] annotations do not change the encoding. They only tell the planner which
// length or capacity to imprint when a fresh buffer is created.
//
// Key Components:
//
//   - Parse / Registry: turn expressions into Nodes. A Registry holds named definitions and caches
//     compiled types, it is safe for concurrent use.
//
//   - Node.Compile: builds an arena.Type[Value] for a Node. The resulting views are Scalar, List,
//     Record, Union and StaticUnion values.
//
//   - Node.Imprinter: plans a zeroed buffer for a Node (unions start out as their first variant).
//
//   - Lookup / Set / Render / Export: navigate, modify and print dynamic views.
//
//   - Generate: emits Go source with typed views for named records and unions.
package schema
