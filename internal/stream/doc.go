// Package stream drains a provider's fragment sequence into a sink.
//
// [Collect] is the only aggregation point between the provider client and
// the terminal: each fragment is written as soon as it arrives and the full
// text is returned once the sequence ends cleanly.
package stream
