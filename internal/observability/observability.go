// Package observability starts the process-wide tracing and profiling
// integrations and tears them down in reverse order.
package observability

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/teamsheet/internal/config"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
)

type stopper struct {
	name string
	stop func(context.Context) error
}

// Stack holds whatever integrations cfg enabled.
type Stack struct {
	logger   *logging.Logger
	stoppers []stopper
}

// Start brings up uptrace, pyroscope and the pprof listener. If one of them
// fails the ones already running are stopped before returning.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}
	s.push("uptrace", shutdownTracing)

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		return nil, errors.CombineErrors(err, s.Shutdown(ctx))
	}
	s.push("pyroscope", func(context.Context) error { return stopProfiler() })

	pprofSrv, err := StartPprofServer(cfg, logger)
	if err != nil {
		return nil, errors.CombineErrors(err, s.Shutdown(ctx))
	}
	if pprofSrv != nil {
		s.push("pprof", pprofSrv.Shutdown)
	}
	return s, nil
}

func (s *Stack) push(name string, stop func(context.Context) error) {
	s.stoppers = append(s.stoppers, stopper{name: name, stop: stop})
}

// Shutdown stops every integration even when an earlier one fails.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var combined error
	for i := len(s.stoppers) - 1; i >= 0; i-- {
		st := s.stoppers[i]
		if err := st.stop(ctx); err != nil {
			combined = errors.CombineErrors(combined, errors.Wrapf(err, "stop %s", st.name))
			continue
		}
		s.logger.Debug("observability integration stopped", "name", st.name)
	}
	s.stoppers = nil
	return combined
}
