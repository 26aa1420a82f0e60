// Package advcopy parses and classifies ETERNUS DX advanced copy sessions.
//
// The input is the captured output of
//
//	show advanced-copy-sessions -type all
//
// which lists one session per row:
//
//	SID  Gen  Type  Volume Type  Source No. Name  Dest No. Name  Status  Phase  Error Code  Requestor
//
// ParseLine turns a row into a Session, Classify maps its (type, status) to a
// health.Observation, and Evaluate runs both over a whole capture.
// Header, ruler and prompt lines do not match the row grammar and are skipped.
package advcopy
