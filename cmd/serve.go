package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	sim "github.com/booster-sim/booster-sim/sim"
	"github.com/booster-sim/booster-sim/sim/trace"
)

// Request limits for the HTTP surface; the CLI is unbounded.
const (
	maxServeTrials      = 1000
	maxServePersonTrial = 10_000_000 // doses * trials
)

var (
	serveAddr        string
	serveConcurrency int // Simulations allowed to run at once
)

// serveCmd hosts the simulator over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		presets, err := loadPresets(defaultsPath, false)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if serveConcurrency < 1 {
			logrus.Fatalf("--max-concurrent must be at least 1, got %d", serveConcurrency)
		}
		srv := newSimServer(presets, runtime.NumCPU(), serveConcurrency, time.Now)
		server := &fasthttp.Server{
			Handler: srv.Handle,
			Name:    "booster-sim",
		}
		logrus.Infof("booster-sim listening on %s (%d concurrent simulations)", serveAddr, serveConcurrency)
		if err := server.ListenAndServe(serveAddr); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
	},
}

// simServer answers /simulate and /healthz. Each simulation already fans out
// over workers goroutines, so slots bounds how many run at once.
type simServer struct {
	presets *sim.ScenarioFile
	workers int
	slots   chan struct{}
	now     func() time.Time
}

func newSimServer(presets *sim.ScenarioFile, workers, concurrent int, now func() time.Time) *simServer {
	return &simServer{
		presets: presets,
		workers: workers,
		slots:   make(chan struct{}, concurrent),
		now:     now,
	}
}

// errorResponse is the JSON body of every non-200 reply.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handle routes a request.
func (s *simServer) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	switch string(ctx.Path()) {
	case "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/simulate":
		s.handleSimulate(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *simServer) handleSimulate(ctx *fasthttp.RequestCtx) {
	cfg, err := s.requestConfig(ctx.QueryArgs())
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	default:
		ctx.Response.Header.Set("Retry-After", "1")
		writeError(ctx, fasthttp.StatusServiceUnavailable, "too many simulations in progress")
		return
	}
	res, err := sim.Run(ctx, cfg)
	if err != nil {
		logrus.Warnf("simulate: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, res.Output(false))
}

// requestConfig layers built-in defaults, an optional preset, and query
// parameters, in increasing precedence.
func (s *simServer) requestConfig(args *fasthttp.Args) (sim.RunConfig, error) {
	params := builtinParams()
	if name := string(args.Peek("preset")); name != "" {
		p, err := s.presets.Lookup(name)
		if err != nil {
			return sim.RunConfig{}, err
		}
		params.overlay(p, nil)
	}

	var err error
	if args.Has("doses") {
		if params.Doses, err = args.GetUint("doses"); err != nil {
			return sim.RunConfig{}, fmt.Errorf("doses: %w", err)
		}
	}
	if args.Has("doses_per_day") {
		if params.DosesPerDay, err = args.GetUint("doses_per_day"); err != nil {
			return sim.RunConfig{}, fmt.Errorf("doses_per_day: %w", err)
		}
	}
	if args.Has("bump_price") {
		if params.BumpPrice, err = args.GetUfloat("bump_price"); err != nil {
			return sim.RunConfig{}, fmt.Errorf("bump_price: %w", err)
		}
	}
	if args.Has("bump_method") {
		params.BumpMethod = string(args.Peek("bump_method"))
	}
	if args.Has("trials") {
		if params.Trials, err = args.GetUint("trials"); err != nil {
			return sim.RunConfig{}, fmt.Errorf("trials: %w", err)
		}
	}
	seedValue := int64(defaultSeed)
	if args.Has("seed") {
		if seedValue, err = strconv.ParseInt(string(args.Peek("seed")), 10, 64); err != nil {
			return sim.RunConfig{}, fmt.Errorf("seed: %w", err)
		}
	}

	if params.Trials > maxServeTrials {
		return sim.RunConfig{}, fmt.Errorf("trials must be at most %d, got %d", maxServeTrials, params.Trials)
	}
	if params.Doses > 0 && params.Trials > 0 && params.Doses > maxServePersonTrial/params.Trials {
		return sim.RunConfig{}, fmt.Errorf("doses * trials must be at most %d", maxServePersonTrial)
	}
	return params.runConfig(seedValue, s.workers, trace.TraceLevelNone, firstDoseDate(s.now()))
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&serveConcurrency, "max-concurrent", 2, "Simulations allowed to run at once; further requests get 503")
	rootCmd.AddCommand(serveCmd)
}
