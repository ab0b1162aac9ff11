package optim

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/drivetrain/internal/control"
	"github.com/san-kum/drivetrain/internal/metrics"
	"github.com/san-kum/drivetrain/internal/motion"
	"github.com/san-kum/drivetrain/internal/sim"
)

// Gain parameter names understood by Apply.
const (
	ParamP = "p"
	ParamI = "i"
	ParamD = "d"
)

// Apply overrides the gains of base named in params.
func Apply(base control.Constants, params map[string]float64) control.Constants {
	k := base
	if v, ok := params[ParamP]; ok {
		k.P = v
	}
	if v, ok := params[ParamI]; ok {
		k.I = v
	}
	if v, ok := params[ParamD]; ok {
		k.D = v
	}
	return k
}

// SpinSetup describes the turn every spin trial performs.
type SpinSetup struct {
	Sim           sim.Config
	NewIntegrator func() sim.Integrator
	Tuning        motion.Tuning
	Base          control.Constants
	Target        float64
	Timeout       time.Duration
}

// SpinTrial scores gains by the integrated absolute heading error of one
// SpinTo on a fresh simulator. A turn that times out scores an extra
// |final error| times the timeout in seconds.
func SpinTrial(setup SpinSetup) Trial {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		s, err := sim.New(setup.Sim, setup.NewIntegrator())
		if err != nil {
			return 0, err
		}
		iae := metrics.NewIntegratedError()
		c := motion.New(s.Robot(), s.Scheduler(),
			motion.WithTuning(setup.Tuning),
			motion.WithObserver(iae),
		)

		var res motion.Result
		err = s.Run(ctx, func(ctx context.Context) error {
			var rerr error
			res, rerr = c.SpinTo(ctx, setup.Target, setup.Timeout, Apply(setup.Base, params))
			return rerr
		})
		if err != nil {
			return 0, err
		}

		score := iae.Value()
		if res.Reason == motion.Timeout {
			score += math.Abs(res.FinalError) * setup.Timeout.Seconds()
		}
		return score, nil
	}
}
