// Package metrics exposes watchdog activity as Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/xvzc/macswitch/internal/command"
	"github.com/xvzc/macswitch/internal/watchdog"
)

const namespace = "macswitch"

var _ watchdog.Recorder = (*Recorder)(nil)

type Recorder struct {
	probes    *prometheus.CounterVec
	rotations *prometheus.CounterVec
	state     *prometheus.GaugeVec
	backOff   prometheus.Gauge
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Reachability probes by controller state and result.",
		}, []string{"state", "result"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Hardware address changes by tool outcome.",
		}, []string{"result"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the controller's current state, 0 otherwise.",
		}, []string{"state"}),
		backOff: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backoff_seconds",
			Help:      "Delay before the next probe while rotating.",
		}),
	}

	reg.MustRegister(r.probes, r.rotations, r.state, r.backOff)

	return r
}

func (r *Recorder) ObserveProbe(state watchdog.State, reachable bool) {
	result := "unreachable"
	if reachable {
		result = "reachable"
	}

	r.probes.WithLabelValues(state.String(), result).Inc()
}

func (r *Recorder) ObserveRotation(exitCode int, err error) {
	var result string
	switch {
	case errors.Is(err, command.ErrStart):
		result = "start_error"
	case exitCode != 0:
		result = "nonzero_exit"
	default:
		result = "ok"
	}

	r.rotations.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveState(state watchdog.State) {
	for _, s := range []watchdog.State{watchdog.Steady, watchdog.GraceWait, watchdog.Rotating} {
		v := 0.0
		if s == state {
			v = 1
		}
		r.state.WithLabelValues(s.String()).Set(v)
	}

	if state != watchdog.Rotating {
		r.backOff.Set(0)
	}
}

func (r *Recorder) ObserveBackOff(d time.Duration) {
	r.backOff.Set(d.Seconds())
}

// Serve exposes g on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return serve(ctx, ln, g, logger)
}

func serve(ctx context.Context, ln net.Listener, g prometheus.Gatherer, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
