// Package token defines the claims record carried inside a goSeal token and
// the codec that maps it to and from the wire format.
//
// A wire token is "v1.seal." followed by the base64url (unpadded) encoding of
// the sealed claims body, optionally followed by "." and the base64url
// encoding of an authenticated cleartext footer. Sealing and opening are
// delegated to the seal package.
//
// Claims serialize as a single flat JSON object: the known fields under their
// fixed keys, and every entry of the Custom map alongside them. Decoding
// splits the object back by the fixed known-key set, so custom claims
// round-trip exactly.
//
// All decode-side failures — bad prefix, malformed segments, failed
// authentication, undecodable body — surface as ErrTokenInvalid without
// further detail. Temporal and identity rule failures, which are not
// security-sensitive, surface as specific errors wrapping ErrValidation.
package token
