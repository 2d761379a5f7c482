// Command splinesim drives a population of simulated connections through
// internal/spline against a chosen network profile and renders phase,
// congestion-window, and pacing-rate trends to the console. It fills the
// role the teacher repo gives cmd/network-simulation and cmd/dashboard,
// adapted to a congestion-control core instead of a QUIC test harness.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spline-cc/spline/internal/metrics"
	"github.com/spline-cc/spline/internal/simconfig"
	"github.com/spline-cc/spline/internal/simhost"
	"github.com/spline-cc/spline/internal/spline"
	"github.com/spline-cc/spline/internal/telemetry"
)

func main() {
	var (
		profileName    = flag.String("profile", "lossy-wifi", "network profile: "+strings.Join(simconfig.ProfileNames(), ", "))
		connections    = flag.Int("connections", 4, "number of simulated connections")
		rounds         = flag.Int("rounds", 200, "number of ack rounds per connection")
		mss            = flag.Uint("mss", 1448, "segment size in bytes")
		prometheusAddr = flag.String("prometheus-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
		otlpEndpoint   = flag.String("otlp-endpoint", "", "if set, export traces/metrics to this OTLP endpoint instead of an in-process provider")
		sampleRate     = flag.Float64("sample-rate", 1.0, "trace sampling ratio in [0,1]")
	)
	flag.Parse()

	profile, err := simconfig.LookupProfile(*profileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	manager, err := telemetry.NewManager(ctx, telemetry.Config{
		ServiceName:    "splinesim",
		ServiceVersion: "0.1.0",
		Environment:    "simulation",
		OTLPEndpoint:   *otlpEndpoint,
		PrometheusAddr: *prometheusAddr,
		SampleRate:     *sampleRate,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry setup:", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "telemetry shutdown:", err)
		}
	}()

	connMetrics, err := telemetry.NewConnMetrics(manager)
	if err != nil {
		fmt.Fprintln(os.Stderr, "telemetry instruments:", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	splineMetrics := metrics.NewSplineMetrics(reg)
	hdr := metrics.NewHDRState()

	if *prometheusAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *prometheusAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintln(os.Stderr, "prometheus listener:", err)
			}
		}()
		defer srv.Close()
	}

	color.Cyan("spline simulation: profile=%s connections=%d rounds=%d", profile.Name, *connections, *rounds)
	fmt.Printf("  %s\n\n", profile.Description)

	hosts := make([]*simhost.Host, *connections)
	lastMode := make([]spline.Mode, *connections)
	for i := range hosts {
		hosts[i] = simhost.NewHost(fmt.Sprintf("conn-%d", i), profile, uint32(*mss), int64(i+1))
		lastMode[i] = hosts[i].State().CurrentMode
	}

	cwndTrend := make([]float64, 0, *rounds)
	bwTrend := make([]float64, 0, *rounds)
	lastRounds := make([]simhost.Round, len(hosts))

	for r := 0; r < *rounds; r++ {
		for i, h := range hosts {
			round := h.Step(r)
			lastRounds[i] = round
			observeRound(ctx, h.Name, round, lastMode[i], connMetrics, splineMetrics, hdr)
			lastMode[i] = round.State.CurrentMode
		}
		cwndTrend = append(cwndTrend, float64(lastRounds[0].Out.SndCwnd))
		bwTrend = append(bwTrend, float64(lastRounds[0].State.BW))

		if r%20 == 0 {
			printRoundLine(r, hosts, lastRounds)
		}
	}

	printSummaryTable(hosts, lastRounds)
	printHDRSummary(hdr)
	fmt.Println()
	fmt.Println(plot(cwndTrend, "cwnd (segments), conn-0"))
	fmt.Println()
	fmt.Println(plot(bwTrend, "bandwidth (bw-units), conn-0"))
}

// observeRound feeds one host's completed round into every observability
// sink: the Prometheus gauges, the HDR histograms, and the OpenTelemetry
// instruments, mirroring what a TracedController would record around
// Controller.OnAck had simhost.Host exposed its controller directly.
func observeRound(ctx context.Context, conn string, round simhost.Round, prevMode spline.Mode, connMetrics *telemetry.ConnMetrics, splineMetrics *metrics.SplineMetrics, hdr *metrics.HDRState) {
	splineMetrics.Observe(conn, round.Out, &round.State)
	connMetrics.RecordStep(ctx, conn, &round.State, round.Out)

	hdr.RecordRTT(round.State.CurrRTT)
	hdr.RecordBandwidth(uint64(round.State.BW))
	hdr.RecordPacingRate(round.Out.PacingRate)

	if round.Sample.Losses {
		connMetrics.RecordLoss(ctx, conn)
		hdr.RecordLoss()
	}

	if round.State.CurrentMode != prevMode {
		splineMetrics.RecordTransition(conn, round.State.CurrentMode.String())
		connMetrics.RecordTransition(ctx, conn, round.State.CurrentMode)
		if round.State.CurrentMode == spline.ModeDrain {
			hdr.RecordDrain()
		}
	}
}

func printRoundLine(round int, hosts []*simhost.Host, rs []simhost.Round) {
	for i, r := range rs {
		phaseColor := phaseColorFunc(r.State.CurrentMode)
		phaseColor("round %4d  %-8s  mode=%-9s cwnd=%-6d pacing=%-10d loss_cnt=%-3d fairness=%d\n",
			round, hosts[i].Name, r.State.CurrentMode.String(), r.Out.SndCwnd, r.Out.PacingRate, r.State.LossCnt, r.State.FairnessRat)
	}
}

func phaseColorFunc(mode spline.Mode) func(format string, a ...any) {
	var c *color.Color
	switch mode {
	case spline.ModeDrain:
		c = color.New(color.FgRed)
	case spline.ModeProbeRTT:
		c = color.New(color.FgYellow)
	case spline.ModeProbeBW:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgWhite)
	}
	return func(format string, a ...any) { c.Printf(format, a...) }
}

func printSummaryTable(hosts []*simhost.Host, final []simhost.Round) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("conn", "phase", "cwnd (segs)", "pacing (Bps)", "loss_cnt", "lt_use_bw")

	for i, h := range hosts {
		st := h.State()
		var round simhost.Round
		if i < len(final) {
			round = final[i]
		}
		_ = table.Append(
			h.Name,
			st.CurrentMode.String(),
			fmt.Sprintf("%d", round.Out.SndCwnd),
			fmt.Sprintf("%d", round.Out.PacingRate),
			fmt.Sprintf("%d", st.LossCnt),
			fmt.Sprintf("%v", st.LTUseBW),
		)
	}
	_ = table.Render()
}

// printHDRSummary reports the RTT distribution and event tallies
// accumulated across every host/round of the run.
func printHDRSummary(hdr *metrics.HDRState) {
	rtt := hdr.RTTStats()
	counters := hdr.Counters()
	fmt.Println()
	color.Cyan("rtt (us): p50=%.0f p90=%.0f p99=%.0f min=%d max=%d  samples=%d  loss_events=%d  drain_events=%d",
		rtt.P50, rtt.P90, rtt.P99, rtt.Min, rtt.Max, counters.Samples, counters.LossEvents, counters.DrainEvents)
}

func plot(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	maxPoints := 80
	step := 1
	if len(data) > maxPoints {
		step = len(data) / maxPoints
	}
	sampled := make([]float64, 0, maxPoints)
	for i := 0; i < len(data); i += step {
		sampled = append(sampled, data[i])
	}
	return asciigraph.Plot(sampled,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
}
