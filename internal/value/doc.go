// Package value provides the dynamic JSON value model used for log records.
//
// Every decoded line becomes an *Object whose members are Values. Value is a
// sealed interface: only Null, Bool, Number, String, Array and *Object
// implement it, so type switches over it are exhaustive.
//
// Key design constraints:
//   - Absence is never a Value. Lookups return (Value, bool); JSON null is Null{}.
//   - Numbers keep their original literal text, so nothing is lost between
//     decoding and serialization.
//   - Objects keep insertion order for display; MarshalCanonical sorts keys
//     (RFC 8785 order) so equal records always serialize identically.
//   - Values are never mutated after decoding.
package value
