// Package conv provides checked integer conversions for snapshot headers.
//
// Sizes and counts are stored as fixed-width unsigned integers on disk and
// held as int in memory. Every conversion of untrusted header data goes
// through this package so that a corrupt header yields an error instead of a
// silently truncated value.
package conv
