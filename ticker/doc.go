// Package ticker fetches currency exchange rates from a blockchain.info style
// ticker endpoint and turns them into observations ready to be committed to
// the ledger.
//
// Failures are reported as one of two tagged errors so callers can tell
// them apart with errors.As:
//   - FetchError: the request could not be made, the server answered with
//     a non-2xx status or the body exceeds the size limit
//   - ParseError: the body is not a ticker document or an entry lacks a
//     numeric "last" rate or a textual "symbol"
//
// No partial result is ever returned together with an error.
package ticker
