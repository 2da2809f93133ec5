// Package token scans the text resource format.
//
// The Scanner reads runes forward only from an io.Reader and never needs the
// whole document in memory.  It tracks line, column and byte offset so that
// callers can report positions and reproduce unchanged byte ranges.
//
// Tokens are produced on demand by Next.  Statement-level decisions, such
// as whether a '[' opens a tag header or an array, are left to the caller,
// which can inspect the next rune with Peek and read raw property keys with
// ReadKey.
package token
