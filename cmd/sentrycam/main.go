// Package main provides the entry point for the sentrycam CLI.
//
// sentrycam is a real-time video anomaly detector. It watches a camera
// or video stream, flags frames containing forbidden object classes,
// and records durable evidence for each anomaly.
//
// Usage:
//
//	sentrycam watch [input] [output]
//	sentrycam report
//	sentrycam events
//
// See --help for all available options.
package main

// main is the entry point for sentrycam.
func main() {
	Execute()
}
