// Package canon encodes harness reports as RFC 8785 canonical JSON and
// derives content-addressed identifiers from them.
//
// Canonical output is byte-stable: object keys are ordered by UTF-16 code
// units, strings are NFC normalized, there is no insignificant whitespace
// and no HTML escaping. Floats and nulls are rejected so that the same
// report always produces the same bytes, which is what golden files and
// counterexample IDs rely on.
package canon
