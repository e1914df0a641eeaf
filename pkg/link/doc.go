// Package link establishes the serial link with the feeder board.
package link

// The peer is a microcontroller speaking a line protocol over a serial
// port. The host sends single ASCII command bytes and the peer replies
// with newline terminated text lines. There is no framing or checksum;
// replies are recognized by keyword.
//
// Before any request the host discards whatever is queued on the input
// side, as the board may emit garbage on power-up and late replies of a
// previous request must not be taken for the answer to the next one.
