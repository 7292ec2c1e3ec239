// Package arena implements a zero-copy binary encoding engine. Values live directly inside a
// caller-owned byte buffer (the arena) and are read or mutated in place, without an intermediate
// decoded representation.
//
// Every encodable type participates in three protocols:
//
//   - Size: a type is either Fixed (its length is known without looking at any bytes) or Scan
//     (its length has to be read from the bytes, possibly recursively). See Sizer and InBounds.
//
//   - Build: a type turns a byte slice into a typed view over a prefix of that slice, either
//     validating the bytes (Build) or trusting a parent that already validated them
//     (UncheckedBuild). Build never writes to the bytes it is handed. See Type.
//
//   - Imprint: a value description computes its encoded size before any bytes exist and then
//     writes the framing (capacities, tags, length prefixes) into a buffer of exactly that size.
//     See Imprinter and CreateBuffer.
//
// Key Components:
//
//   - Literal, CharLiteral, Blob, Text: leaf views over scalars and length-prefixed byte strings.
//
//   - List: a capacity-prefixed homogeneous sequence. Items of fixed-size element types are
//     located in O(1), items of scan-dependent element types by walking the preceding items.
//
//   - Record: an ordered concatenation of heterogeneous fields, assembled with a Fields cursor.
//
//   - Union and StaticUnion: tagged sum types. The dynamic form occupies exactly the size of its
//     active variant, the static form reserves the size of its largest variant and supports
//     swapping the active variant in place (Static.Reinterpret).
//
//   - ReadOnly and AliasGuard: the aliasing-safety primitives. ReadOnly hands out frozen views,
//     AliasGuard keeps an original handle inert while a view derived from the same bytes is live.
//
//   - Arena: an opt-in lease tracker that turns the "no two live views overlap" convention into a
//     checked runtime invariant.
//
// Wire Format (all multi-byte fields little-endian, Ptr = uint32, no padding):
//
//	Literal (scalar)   raw size_of(T) bytes
//	Literal (blob/str) u32 length, then length bytes
//	List               u32 capacity, then capacity items back-to-back
//	Record             fields concatenated in declared order
//	Union (dynamic)    ceil(log2(N)/8) tag bytes (0 if N <= 1), then the active variant
//	Union (static)     same tag, then a region sized to the largest variant
//
// Ownership:
//
//	Each live view must own a disjoint sub-range of the arena. A parent that hands a sub-view to a
//	child must not write to that sub-range while the child is in use. The package does not track
//	this on its own, it is the caller's contract. Wrap the buffer in an Arena to have overlapping
//	leases rejected at runtime.
//
// Thread Safety:
//
//	Views are not safe for concurrent mutation. If several goroutines need access to one arena,
//	the whole arena must be guarded by a single external lock. Type descriptors (ListType,
//	RecordType, UnionType, ...) are immutable after construction and may be shared freely.
//
// Usage:
//
//	points := arena.ListOf[arena.Literal[uint8]](arena.U8)
//	buf, err := arena.CreateBuffer(points.WithCapacity(10))
//	// ...
//	list, err := arena.Create(points, buf)
//	list.Get(0).Write(10)
//	fmt.Println(list.Borrow(0).Get().Read())
package arena
