// Package charset converts between character buffers and byte buffers under a
// named encoding.
//
// Charsets are looked up by name through a process-wide registry that is built
// once and never modified. Lookups ignore case and the separators '-', '_' and
// ' ', so "utf8", "UTF-8" and "Utf_8" all resolve to the same Charset. Names
// outside the built-in table are resolved through the IANA index of
// golang.org/x/text.
//
// # Usage
//
//	codec, err := charset.NewCodec("GBK")
//	if err != nil {
//	    return err
//	}
//
//	encoded, err := codec.Encode(buffer.WrapString("fighting"))
//	if err != nil {
//	    return err
//	}
//
//	decoded, err := codec.Decode(encoded)
//
// # Error Policies
//
// By default a Codec reports failures: encoding a character the charset cannot
// represent fails with ErrUnmappableCharacter and decoding bytes that are not
// valid in the charset fails with ErrMalformedInput, both wrapped in a
// *CodingError carrying the failing index. A failed call consumes nothing from
// its source buffer.
//
// WithUnmappable(Replace) and WithMalformed(Replace) switch to substitution.
// Decoding bytes under the wrong charset with Replace yields garbled text, never
// a failure.
package charset
