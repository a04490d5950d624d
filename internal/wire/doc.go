// Package wire owns the protobuf wire primitives used by the message codecs.
//
// It has no knowledge of any message shape. A Writer accumulates the fields of
// one message; a Reader walks a single encoded message forward, field by field.
//
// Only varint (0) and length-delimited (2) fields are produced. The Reader can
// additionally skip fixed64 (1) and fixed32 (5) fields so that unknown fields
// never desynchronize the cursor.
package wire
