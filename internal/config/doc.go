// Package config provides configuration management for sentrycam.
//
// Configuration comes from three sources, in increasing precedence:
//   - Built-in defaults (NewConfig)
//   - The optional YAML rules file (.sentrycam)
//   - CLI flags
//
// The package also owns the fixed data-directory layout shared by the watch
// pipeline and the offline report command: the rotating detection log, the
// structured anomaly CSV, the snapshot directory, and the event database all
// live under one XDG data directory so the aggregator can find them without
// arguments.
package config
