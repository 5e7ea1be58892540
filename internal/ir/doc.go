// Package ir provides the compiled representation shared by the keyframe
// engine packages.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal, so the compiler, interpolation and
// playback layers never depend on each other through it.
//
// Key design constraints:
//   - Tracks are immutable after compilation
//   - Value is sealed: Number, Text, Color, LengthList, Path and FilterList
//   - Times are milliseconds as float64
//   - Errors carry an ErrorCode so callers can branch without string matching
package ir
