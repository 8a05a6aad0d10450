// Package chunking is the shared size-bounded packing core used by every
// source format.
//
// Format processors split raw text into ordered Segments along structural
// boundaries, then repack segments (or finer units: paragraphs, sentences)
// into chunks with a Packer. The Packer is a small state machine over an
// accumulator of pending units; its transitions are Append, Flush and
// FlushCarry, and Finish performs the terminal flush. Every emitted piece
// carries the token count of its final joined text.
package chunking
