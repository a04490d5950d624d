// Package fulfillment holds the messages exchanged with the fulfillment API
// and one hand-written encode/decode pair per message, built on package wire.
//
// Conventions shared by every codec in this package:
//   - Decoders never fail because a field is absent. Absent strings decode to
//     "", absent nested messages and optional int32 scalars to nil.
//   - Unknown fields are skipped by wire type, so newer servers can add fields.
//   - Malformed input is reported as an error wrapping the wire error; a
//     decoder never returns a partially filled message alongside an error.
//   - Encoders omit empty strings and bytes; "" and absent are the same on the wire.
//   - Map fields travel as repeated {key = 1, value = 2} entries. Keys are
//     written in sorted order; decoding accepts any order.
package fulfillment
