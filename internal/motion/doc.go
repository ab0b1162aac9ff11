// Package motion implements the closed-loop motion primitives of a
// differential-drive robot.
//
// Every primitive is a synchronous, bounded loop on the caller's goroutine:
//
//	Running -> (Settling) -> Terminated
//
// Each tick samples the robot, computes an error, consults the state
// machine, commands the drivetrain and yields one scheduler tick. The
// timeout is checked first on every tick and always wins; on termination
// the drivetrain is brake-stopped.
//
//   - [Chassis.SpinTo]: PID turn in place, settle or timeout
//   - [Chassis.Drive]: PID on rotation delta, timeout only
//   - [Chassis.AutoDrive]: linear + heading hold, timeout only
//   - [Chassis.OdomDrive]: PID on remaining distance, settle or timeout
//   - [Chassis.MoveTo]: point seek with a scheduled angular gain, timeout only
//   - [Chassis.MoveToPose]: curve following over a lookup table
//   - [Chassis.TimedSpin]: open-loop spin until overshoot or timeout
//   - [Chassis.VelsUntilHeading]: open-loop commands until a heading
//   - [Chassis.ArcTurn]: geometric arc with PID magnitude, timeout only
//
// # Thread Safety
//
// A Chassis is NOT safe for concurrent use. One primitive runs at a time.
package motion
