// Package control provides the feedback controller used by the motion
// primitives.
//
//   - [PID]: tick-based Proportional-Integral-Derivative controller with
//     tolerance reset, threshold freeze and hard integral cap
//   - [Schedule]: linear gain schedule used to fade a gain out as an error
//     shrinks
//
// # Usage
//
//	pid := control.NewPID(control.NewConstants(3.7, 1.3, 26, 0.05, 2.4, 20), initialErr)
//	for {
//		u := pid.Out(err)
//		// saturate u before actuation
//	}
//
// [PID.Update] swaps gains mid-run for gain scheduling; [PID.SetParam]
// supports live tuning by name.
package control
