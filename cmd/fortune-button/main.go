// Command fortune-button runs the interactive fortune installation: it
// watches a GPIO button, derives deterministic fortune content from each
// accepted press, prints it on a thermal receipt printer, and reports
// status over a file, HTTP, and MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sweeney/fortune-button/internal/button"
	"github.com/sweeney/fortune-button/internal/guard"
	"github.com/sweeney/fortune-button/internal/journal"
	"github.com/sweeney/fortune-button/internal/logic"
	"github.com/sweeney/fortune-button/internal/metrics"
	"github.com/sweeney/fortune-button/internal/mqtt"
	"github.com/sweeney/fortune-button/internal/oracle"
	"github.com/sweeney/fortune-button/internal/printer"
	"github.com/sweeney/fortune-button/internal/status"
	"github.com/sweeney/fortune-button/internal/web"
)

// envPrefix is prepended to the upper-cased flag name to form its
// environment variable (e.g. -status-file -> FORTUNE_STATUS_FILE).
const envPrefix = "FORTUNE_"

type options struct {
	pin          int
	poll         time.Duration
	hold         time.Duration
	cooldown     time.Duration
	heartbeat    time.Duration
	httpAddr     string
	broker       string
	statusFile   string
	cooldownFile string
	journalPath  string
	almanacDir   string
	devicePath   string
	printerName  string
	scriptPath   string
	consolePrint bool
	press        bool
}

func main() {
	var opts options
	envFile := flag.String("env", ".env", "Env file loaded for flag defaults (missing file is fine)")
	flag.IntVar(&opts.pin, "pin", button.DefaultPin, "BCM pin number of the button")
	flag.DurationVar(&opts.poll, "poll", 50*time.Millisecond, "Button polling interval")
	flag.DurationVar(&opts.hold, "hold", 500*time.Millisecond, "Minimum hold duration for a press")
	flag.DurationVar(&opts.cooldown, "cooldown", 5*time.Second, "Minimum time between accepted presses")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.StringVar(&opts.statusFile, "status-file", "runtime_status.json", "Status file path (empty to disable)")
	flag.StringVar(&opts.cooldownFile, "cooldown-file", "cooldown_state.json", "Cooldown persistence file")
	flag.StringVar(&opts.journalPath, "journal", "", "Session journal sqlite path (empty to disable)")
	flag.StringVar(&opts.almanacDir, "almanac", "", "Calendar almanac directory (empty to disable)")
	flag.StringVar(&opts.devicePath, "device", printer.DefaultDevicePath, "Thermal printer character device")
	flag.StringVar(&opts.printerName, "printer", printer.DefaultPrinterName, "CUPS print queue name")
	flag.StringVar(&opts.scriptPath, "script", printer.DefaultScriptPath, "Fallback print script path")
	flag.BoolVar(&opts.consolePrint, "console-print", false, "Add a console print backend (bench testing)")
	flag.BoolVar(&opts.press, "press", false, "Run one press through the pipeline and exit")

	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
			log.Printf("env file %s: %v", *envFile, err)
		}
	}
	applyEnv(flag.CommandLine)

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyEnv fills in flags that were not set on the command line from
// FORTUNE_* environment variables. Precedence: flag > env > default.
func applyEnv(fs *flag.FlagSet) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] || f.Name == "env" {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(key); ok {
			if err := fs.Set(f.Name, v); err != nil {
				log.Printf("env %s=%q: %v", key, v, err)
			}
		}
	})
}

// daemon holds the wired-up components the run loop drives. Optional
// collaborators (reader, publisher, journal) are nil when disabled.
type daemon struct {
	reader     button.Reader
	pub        mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	writer     *status.Writer
	jnl        *journal.Journal
	gen        *oracle.Generator
	dispatcher *printer.Dispatcher
	guard      *guard.Guard
	hold       time.Duration
	heartbeat  time.Duration
}

func run(opts options) error {
	ctx := context.Background()

	var almanac *oracle.Almanac
	if opts.almanacDir != "" {
		almanac = oracle.NewAlmanac(opts.almanacDir)
	}
	gen := oracle.NewGenerator(almanac)

	backends := []printer.Backend{
		printer.NewDevice(opts.devicePath),
		printer.NewQueue(opts.printerName),
		printer.NewScript(opts.scriptPath),
	}
	if opts.consolePrint {
		backends = append(backends, printer.Console{})
	}
	dispatcher := printer.NewDispatcher(0, backends...)

	var jnl *journal.Journal
	var firstSeq uint64
	if opts.journalPath != "" {
		var err error
		jnl, err = journal.Open(ctx, opts.journalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer jnl.Close()
		firstSeq, err = jnl.MaxSeq(ctx)
		if err != nil {
			return fmt.Errorf("restore session counter: %w", err)
		}
	}

	g, err := guard.New(guard.NewFileStore(opts.cooldownFile), opts.hold, opts.cooldown, firstSeq)
	if err != nil {
		return fmt.Errorf("init guard: %w", err)
	}

	d := &daemon{
		jnl:        jnl,
		gen:        gen,
		dispatcher: dispatcher,
		guard:      g,
		hold:       opts.hold,
		heartbeat:  opts.heartbeat,
		writer:     status.NewWriter(opts.statusFile),
	}

	d.tracker = status.NewTracker(time.Now(), status.Config{
		Pin:        opts.pin,
		PollMs:     opts.poll.Milliseconds(),
		HoldMs:     opts.hold.Milliseconds(),
		CooldownMs: opts.cooldown.Milliseconds(),
		Broker:     opts.broker,
		HTTPAddr:   opts.httpAddr,
		StatusFile: opts.statusFile,
		AlmanacDir: opts.almanacDir,
	})

	// One-shot mode: run a single press through the full pipeline and exit.
	if opts.press {
		return d.pressOnce(ctx, time.Now())
	}

	// The button is optional so the daemon can run on a bench machine with
	// only the web trigger.
	if reader, err := button.NewRealReader(opts.pin); err != nil {
		log.Printf("button on pin %d unavailable, running without GPIO: %v", opts.pin, err)
	} else {
		d.reader = reader
		defer reader.Close()
	}

	if opts.broker != "" {
		pub := mqtt.NewRealPublisher(opts.broker)
		defer pub.Close()
		d.pub = pub
		d.mqttStatus = pub
	}

	d.refreshHardware()

	// Publish startup with a full status snapshot, retained so late
	// subscribers see the current state.
	if d.pub != nil {
		snap := d.tracker.Snapshot()
		startup := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := d.pub.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	if err := d.writer.Write(d.tracker.Snapshot()); err != nil {
		log.Printf("status file write: %v", err)
	}

	actions := make(chan web.Action, 4)
	if opts.httpAddr != "" {
		var sessions web.SessionLister
		if d.jnl != nil {
			sessions = d.jnl
		}
		srv := web.New(opts.httpAddr, d.tracker, sessions, actions)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: pin=%d poll=%v hold=%v cooldown=%v broker=%s",
		opts.pin, opts.poll, opts.hold, opts.cooldown, opts.broker)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return d.runLoop(time.Now, ticker.C, sigCh, actions)
}

func (d *daemon) runLoop(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, actions <-chan web.Action) error {
	startTime := now()
	detector := logic.NewDetector(d.hold, startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			d.shutdown(now(), signalName)
			return nil

		case a := <-actions:
			switch a.Kind {
			case web.ActionPress:
				// Synthetic press: same guard rules as a physical one.
				log.Printf("synthetic press requested")
				d.handleSignal(d.hold, now())
			case web.ActionPrint:
				d.printDefault(now())
			}

		case t := <-tick:
			if d.reader != nil {
				pressed, err := d.reader.Read()
				if err != nil {
					log.Printf("button read error: %v", err)
					continue
				}
				if raw := detector.Process(logic.Input{Pressed: pressed, Time: t}); raw != nil {
					d.handleSignal(raw.HeldFor, raw.Time)
				}
			}

			d.tracker.SetCounts(detector.CountsSnapshot())
			if d.mqttStatus != nil {
				d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
			}

			if hb := detector.CheckHeartbeat(t, d.heartbeat); hb != nil {
				d.heartbeatEvent(hb)
			}
		}
	}
}

// refreshHardware re-probes backend availability. Printers get plugged in
// and unplugged while the installation runs, so the flag is recomputed
// before every status-bearing event rather than once at startup.
func (d *daemon) refreshHardware() {
	d.tracker.SetHardware(d.reader != nil, printerConnected(d.dispatcher))
}

// handleSignal runs one raw signal through the guard and, when accepted,
// the whole generate-print-record pipeline.
func (d *daemon) handleSignal(heldFor time.Duration, at time.Time) {
	d.refreshHardware()
	ev, remaining := d.guard.OnRawSignal(heldFor, at)
	if ev == nil {
		if remaining > 0 {
			log.Printf("press rejected: cooldown, %.1fs remaining", remaining.Seconds())
			metrics.Press(metrics.ResultCooldown)
		} else {
			metrics.Press(metrics.ResultShortHold)
		}
		return
	}
	metrics.Press(metrics.ResultAccepted)

	rec := d.gen.Generate(ev.Timestamp, ev.Timestamp)
	log.Printf("session #%d: category=%s entropy=%.4f loops=%d fallback=%v",
		ev.Sequence, rec.Category, rec.Metrics.Entropy, rec.Metrics.Loops, rec.FallbackUsed)

	payload := printer.Render(rec, *ev)
	out := d.dispatcher.Dispatch(context.Background(), payload)
	metrics.Print(out.Method, out.Success)
	if out.Success {
		log.Printf("session #%d printed via %s", ev.Sequence, out.Method)
	} else {
		log.Printf("session #%d print failed: %v", ev.Sequence, out.Err)
	}

	d.tracker.RecordPress(ev.Sequence, ev.Timestamp, rec, out)
	if err := d.writer.Write(d.tracker.Snapshot()); err != nil {
		log.Printf("status file write: %v", err)
	}

	if d.jnl != nil {
		if err := d.jnl.Record(context.Background(), *ev, rec, out); err != nil {
			log.Printf("journal record: %v", err)
		}
	}

	if d.pub != nil {
		result := mqtt.PressResult{
			Timestamp:    ev.Timestamp,
			Sequence:     ev.Sequence,
			Category:     string(rec.Category),
			Entropy:      rec.Metrics.Entropy,
			Intensity:    rec.Metrics.Intensity,
			Loops:        rec.Metrics.Loops,
			FallbackUsed: rec.FallbackUsed,
			Success:      out.Success,
			Method:       out.Method,
		}
		if out.Err != nil {
			result.Error = out.Err.Error()
		}
		if err := d.pub.Publish(result); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

// printDefault prints current default content on demand, outside the guard.
func (d *daemon) printDefault(now time.Time) {
	rec := d.gen.Generate(now, now)
	payload := printer.RenderDefault(rec, now)
	out := d.dispatcher.Dispatch(context.Background(), payload)
	metrics.Print(out.Method, out.Success)
	if out.Success {
		log.Printf("on-demand print via %s", out.Method)
	} else {
		log.Printf("on-demand print failed: %v", out.Err)
	}
}

func (d *daemon) heartbeatEvent(hb *logic.HeartbeatData) {
	log.Printf("heartbeat: uptime=%v presses=%d signals=%d short_holds=%d",
		hb.Uptime, hb.Counts.Presses, hb.Counts.Signals, hb.Counts.ShortHolds)

	d.refreshHardware()
	if err := d.writer.Write(d.tracker.Snapshot()); err != nil {
		log.Printf("status file write: %v", err)
	}

	if d.pub == nil {
		return
	}
	snap := d.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  hb.Timestamp,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := d.pub.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (d *daemon) shutdown(at time.Time, reason string) {
	d.refreshHardware()
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
	snap := d.tracker.Snapshot()

	if err := d.writer.Write(snap); err != nil {
		log.Printf("status file write: %v", err)
	}

	if d.pub == nil {
		return
	}
	event := mqtt.SystemEvent{
		Timestamp:  at,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := d.pub.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// pressOnce is the -press mode: one press through the full pipeline,
// honoring the persisted cooldown, then exit.
func (d *daemon) pressOnce(ctx context.Context, now time.Time) error {
	ev, remaining := d.guard.OnRawSignal(d.hold, now)
	if ev == nil {
		return fmt.Errorf("press rejected: cooldown, %.1fs remaining", remaining.Seconds())
	}

	rec := d.gen.Generate(ev.Timestamp, ev.Timestamp)
	payload := printer.Render(rec, *ev)
	out := d.dispatcher.Dispatch(ctx, payload)

	d.tracker.RecordPress(ev.Sequence, ev.Timestamp, rec, out)
	if err := d.writer.Write(d.tracker.Snapshot()); err != nil {
		log.Printf("status file write: %v", err)
	}
	if d.jnl != nil {
		if err := d.jnl.Record(ctx, *ev, rec, out); err != nil {
			log.Printf("journal record: %v", err)
		}
	}

	fmt.Printf("session #%d: %s (entropy %.4f)\n", ev.Sequence, rec.Category, rec.Metrics.Entropy)
	for _, line := range rec.Lines {
		fmt.Println(line)
	}
	if out.Success {
		fmt.Printf("printed via %s\n", out.Method)
		return nil
	}
	return fmt.Errorf("print failed: %v", out.Err)
}

// printerConnected reports whether any physical backend is reachable.
// The console backend does not count; it is always available.
func printerConnected(d *printer.Dispatcher) bool {
	for _, b := range d.Backends() {
		if b.Name() == "console" {
			continue
		}
		if b.Available() {
			return true
		}
	}
	return false
}
