// Package codec implements the canonical molecule wire format: the
// default-content generator, the verifier, the random-access reader, and
// the builder (spec.md §4.3-§4.7).
//
// # Worked example: a one-item DynVec<Bytes>
//
// BytesVec, a DynVec whose items are Bytes (a FixVec<byte>), with one
// empty Bytes item:
//
//	10000000 01000000 0c000000 00000000
//	└total=16┘└count=1┘└off[0]=12┘└item: count=0 (4 bytes)
//
// total_size (16) covers the whole slice; count (1) says there is one
// offset slot; off[0] (12) points just past the 12-byte header. The empty
// Bytes item still serializes to its 4-byte item_count header (0), so it
// occupies bytes 12..16 and ends at the vector's total_size.
//
// # Roundtrip
//
//	b := Table(tableDecl, fieldBuilders)
//	e := b.Build()
//	if err := e.Verify(false); err != nil { ... }
//	r := e.Reader()
//	name, _ := ReadString(r.TableField(2))
package codec
