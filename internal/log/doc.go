// Package log provides the two loggers sentrycam uses.
//
// The detection logger is the human-readable evidence log: one line per
// log call, written to a size-rotated file (bounded backups) and mirrored
// to standard output so an operator watching the terminal sees the same
// stream that lands on disk.
//
// The app logger is the usual stderr diagnostics logger, quiet by default
// and switched to debug level with --verbose.
//
// Design decision: Rotation is delegated to lumberjack rather than
// hand-rolled because the requirements (size threshold, bounded backups,
// append-only between rotations) are exactly lumberjack's contract, and a
// tailing process must never observe a truncated file.
package log
