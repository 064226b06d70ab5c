// Package ir defines the typed intermediate representation for compiled
// graph expressions and its construction API.
//
// One compiled unit (a Chunk) holds a flat, append-only InstructionSeq. Each
// placed operation is assigned a strictly increasing sequence position and a
// value type derived from the operation itself. Loop-like constructs
// (component-wise broadcasting over lists) and conditional constructs
// (piecewise chains) are expressed as well-nested begin/end marker operations
// inside the otherwise linear log; the storage layer never interprets them.
// Well-nestedness is enforced procedurally by the broadcast builder during
// lowering and can be asserted after the fact with Validate.
//
// Invariants:
//   - Id identity is the sequence position alone; the carried value type is
//     metadata and never participates in comparisons.
//   - Every operation kind carries its own type rule (Op.Type); an operation
//     without one does not compile.
//   - A finished sequence is immutable and safe for concurrent reads.
package ir
