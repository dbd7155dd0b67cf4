package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/octree/featureflag"
	"github.com/aukilabs/octree/feed"
	"github.com/aukilabs/octree/geometry"
	octreehttp "github.com/aukilabs/octree/http"
	"github.com/aukilabs/octree/simulation"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "octree_info",
		Help:        "Octree simulator information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr               string        `cli:""        env:"OCTREE_ADDR"                 help:"Listening address for feed and debug requests."`
	AdminAddr          string        `cli:""        env:"OCTREE_ADMIN_ADDR"           help:"Admin listening address."`
	LogLevel           string        `cli:""        env:"OCTREE_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"OCTREE_LOG_INDENT"           help:"Indent logs."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"OCTREE_LOG_SUMMARY_INTERVAL" help:"The duration between each simulation log summary."`
	FrameDuration      time.Duration `cli:",hidden" env:"OCTREE_FRAME_DURATION"       help:"The duration of a simulation step."`
	MaxDepth           int           `cli:""        env:"OCTREE_MAX_DEPTH"            help:"The maximum depth of the octree."`
	Bodies             int           `cli:""        env:"OCTREE_BODIES"               help:"The number of bodies spawned at start."`
	BodyRadius         float64       `cli:""        env:"OCTREE_BODY_RADIUS"          help:"The maximum radius of a body."`
	BodySpeed          float64       `cli:""        env:"OCTREE_BODY_SPEED"           help:"The maximum speed of a body, in units per second."`
	Bounds             float64       `cli:""        env:"OCTREE_BOUNDS"               help:"The half size of the cubic world, centered on the origin."`
	Seed               int64         `cli:""        env:"OCTREE_SEED"                 help:"The seed used to spawn bodies. 0 picks one from the clock."`
	FeedQueueSize      int           `cli:",hidden" env:"OCTREE_FEED_QUEUE_SIZE"      help:"The number of frames buffered per feed subscriber."`
	ShutdownTimeout    time.Duration `cli:",hidden" env:"OCTREE_SHUTDOWN_TIMEOUT"     help:"The time given to servers to finish their requests on exit."`
	FeatureFlags       []string      `cli:",hidden" env:"OCTREE_FEATURE_FLAGS"        help:"Comma separated feature flags"`
	Version            bool          `cli:""        env:"-"                           help:"Show version."`
	Help               bool          `cli:""        env:"-"                           help:"Show help."`
}

func main() {
	conf := config{
		Addr:               ":4000",
		AdminAddr:          ":18190",
		LogLevel:           logs.InfoLevel.String(),
		LogSummaryInterval: time.Minute,
		FrameDuration:      time.Millisecond * 15,
		MaxDepth:           5,
		Bodies:             200,
		BodyRadius:         1,
		BodySpeed:          4,
		Bounds:             32,
		FeedQueueSize:      feed.DefaultQueueSize,
		ShutdownTimeout:    time.Second * 10,
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the octree collision simulator.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	flags := featureflag.New(conf.FeatureFlags)
	half := float32(conf.Bounds)

	world, err := simulation.NewWorld(simulation.Config{
		Bounds:   geometry.NewBox(geometry.NewVector3(-half, -half, -half), geometry.NewVector3(half, half, half)),
		MaxDepth: conf.MaxDepth,
		Flags:    flags,
	})
	if err != nil {
		logs.Fatal(err)
	}

	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := spawnBodies(world, rand.New(rand.NewSource(seed)), conf); err != nil {
		logs.Fatal(err)
	}

	var service http.ServeMux
	var publish func(simulation.Frame)

	if !flags.IsSet(featureflag.FlagDisableCollisionFeed) {
		hub := feed.NewHub(conf.FeedQueueSize)
		defer hub.Close()

		publish = func(f simulation.Frame) {
			if err := hub.Publish(f); err != nil {
				logs.WithTag("step", f.Step).Error(err)
			}
		}

		service.Handle("/feed", websocket.Server{
			Handler: hub.Handler(ctx),
		})
	}

	var running atomic.Bool
	readinessCheck := running.Load

	service.Handle("/health", octreehttp.HandleWithCORS(http.HandlerFunc(octreehttp.HandleHealthCheck)))
	service.Handle("/version", octreehttp.HandleWithCORS(http.HandlerFunc(octreehttp.HandleVersion(version))))
	service.Handle("/ready", octreehttp.HandleWithCORS(http.HandlerFunc(octreehttp.HandleReadyCheck(readinessCheck))))
	service.Handle("/probe", octreehttp.HandleWithCORS(octreehttp.HandleProbe(world.Probe)))
	service.Handle("/debug/octree", octreehttp.HandleWithCORS(octreehttp.HandleSnapshot(func() any {
		return world.Snapshot()
	})))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", octreehttp.HandleHealthCheck)
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	admin.HandleFunc("/ready", octreehttp.HandleReadyCheck(readinessCheck))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		running.Store(true)
		defer running.Store(false)

		world.Run(ctx, conf.FrameDuration, conf.LogSummaryInterval, publish)
	}()

	logs.WithTag("version", version).
		WithTag("run_id", uuid.NewString()).
		WithTag("log_level", conf.LogLevel).
		WithTag("seed", seed).
		WithTag("bodies", conf.Bodies).
		WithTag("max_depth", conf.MaxDepth).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting octree simulator")

	octreehttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		octreehttp.Server{Name: "service", Server: &http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			octreehttp.MetricsPathFormatter)}},
		octreehttp.Server{Name: "admin", Server: &http.Server{Addr: conf.AdminAddr, Handler: &admin}},
	)

	wg.Wait()
}

// spawnBodies fills the world with bodies of random position, size and
// velocity.
func spawnBodies(world *simulation.World, rng *rand.Rand, conf config) error {
	half := float32(conf.Bounds)
	maxRadius := float32(conf.BodyRadius)
	maxSpeed := float32(conf.BodySpeed)

	random := func(limit float32) float32 {
		return (rng.Float32()*2 - 1) * limit
	}

	for i := 0; i < conf.Bodies; i++ {
		center := geometry.NewVector3(random(half), random(half), random(half))
		velocity := geometry.NewVector3(random(maxSpeed), random(maxSpeed), random(maxSpeed))
		radius := maxRadius * (0.25 + rng.Float32()*0.75)

		if _, err := world.Spawn(geometry.NewSphere(center, radius), velocity); err != nil {
			return errors.New("spawning body failed").
				WithTag("index", i).
				Wrap(err)
		}
	}
	return nil
}

func validateConfig(conf config) error {
	if conf.MaxDepth < 0 {
		return errors.New("max depth must not be negative").
			WithTag("max_depth", conf.MaxDepth)
	}

	if conf.Bounds <= 0 {
		return errors.New("bounds must be positive").
			WithTag("bounds", conf.Bounds)
	}

	if conf.Bodies < 0 {
		return errors.New("bodies must not be negative").
			WithTag("bodies", conf.Bodies)
	}

	if conf.BodyRadius <= 0 || conf.BodyRadius > conf.Bounds {
		return errors.New("body radius must be positive and within the bounds").
			WithTag("body_radius", conf.BodyRadius).
			WithTag("bounds", conf.Bounds)
	}

	if conf.BodySpeed < 0 {
		return errors.New("body speed must not be negative").
			WithTag("body_speed", conf.BodySpeed)
	}

	if conf.FrameDuration <= 0 || conf.LogSummaryInterval <= 0 {
		return errors.New("frame duration and log summary interval must be positive").
			WithTag("frame_duration", conf.FrameDuration).
			WithTag("log_summary_interval", conf.LogSummaryInterval)
	}

	if conf.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive").
			WithTag("shutdown_timeout", conf.ShutdownTimeout)
	}

	return nil
}
