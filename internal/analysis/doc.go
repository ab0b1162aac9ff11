// Package analysis characterises recorded primitive runs as step
// responses.
//
//   - [Split]: cut a sample stream into one segment per primitive run
//   - [Analyze]: overshoot, oscillation, settling time per segment
//   - [PowerSpectrum] and [DominantFrequency]: ringing frequency of the error
//
// Overshoot is measured against the starting error: a run that starts 90
// degrees short and crosses 9 degrees past the target has 10% overshoot.
package analysis
