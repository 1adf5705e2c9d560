// matchdayd serves the aggregated daily football view: fixtures joined
// with predictions and 1X2 odds, filtered to usable forecasts, tagged by
// top league, and ranked into picks. The heavy upstream work is cached per
// day; the fixture status refreshes on the quarter-hour cadence.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/betbro/matchday/pkg/apifootball"
	"github.com/betbro/matchday/pkg/matchday/aggregate"
	"github.com/betbro/matchday/pkg/matchday/cache"
	"github.com/betbro/matchday/pkg/matchday/enrich"
	"github.com/betbro/matchday/pkg/matchday/leagues"
	"github.com/betbro/matchday/pkg/matchday/metrics"
	"github.com/betbro/matchday/pkg/matchday/odds"
	"github.com/betbro/matchday/pkg/matchday/streaming"
)

var (
	// Flags
	httpAddr  = flag.String("http", ":5010", "HTTP server address")
	apiKey    = flag.String("key", "", "api-football key (or API_FOOTBALL_KEY env)")
	timezone  = flag.String("tz", "Europe/Berlin", "Timezone for day boundaries and kickoff times")
	pageDelay = flag.Duration("page-delay", odds.DefaultPageDelay, "Spacing between odds page requests")
	livePicks = flag.Bool("live-picks", false, "Also score live fixtures as picks")
)

type server struct {
	agg *aggregate.Aggregator
	hub *streaming.Hub
	met *metrics.Metrics
	loc *time.Location
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting matchday daemon")

	key := *apiKey
	if key == "" {
		key = os.Getenv("API_FOOTBALL_KEY")
	}
	if key == "" {
		log.Fatal("No API key: pass -key or set API_FOOTBALL_KEY")
	}

	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("Bad timezone %q: %v", *timezone, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	client := apifootball.NewClient(key, apifootball.WithTimezone(*timezone))
	met := metrics.New()

	srv := &server{
		agg: aggregate.New(
			client,
			odds.NewMerger(client, *pageDelay),
			enrich.NewLoader(client, enrich.DefaultConfig()),
			leagues.NewClassifier(client, nil),
			met,
			aggregate.Config{PicksIncludeLive: *livePicks, Location: loc},
		),
		hub: streaming.NewHub(),
		met: met,
		loc: loc,
	}

	go srv.hub.Run()
	go srv.refreshLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/fixtures", srv.handleFixtures)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(met.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/ws", srv.hub.ServeWS)

	httpSrv := &http.Server{Addr: *httpAddr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	log.Printf("Serving on %s (tz=%s, live-picks=%v)", *httpAddr, *timezone, *livePicks)

	<-sigCh
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx)
}

// handleFixtures serves the categorized daily view as JSON.
func (s *server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	date, err := normalizeDate(r.URL.Query().Get("date"), s.loc)
	if err != nil {
		s.met.CountRequest("bad_request", time.Since(start))
		http.Error(w, `{"error":"invalid date, want YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	view, err := s.agg.DailyView(r.Context(), date)
	if err != nil {
		log.Printf("[http] daily view for %s: %v", date, err)
		s.met.CountRequest("error", time.Since(start))
		http.Error(w, `{"error":"failed to load data"}`, http.StatusInternalServerError)
		return
	}
	s.met.CountRequest("ok", time.Since(start))

	resp := struct {
		Date     string `json:"date"`
		Sections struct {
			Today aggregate.Sections    `json:"today"`
			Top   aggregate.TopSections `json:"top"`
			Past  []*aggregate.Item     `json:"past"`
			Picks []*aggregate.Item     `json:"picks"`
		} `json:"sections"`
	}{Date: view.Date}
	resp.Sections.Today = view.Today
	resp.Sections.Top = view.Top
	resp.Sections.Past = view.Past
	resp.Sections.Picks = view.Picks

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

// refreshLoop rebuilds today's view on every quarter-hour boundary and
// announces it to streaming clients, so dashboards stay current without
// polling.
func (s *server) refreshLoop(ctx context.Context) {
	for {
		delay := cache.TTLToNextQuarterHour(time.Now().In(s.loc))
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		date := s.today()
		view, err := s.agg.DailyView(ctx, date)
		if err != nil {
			log.Printf("[refresh] %s: %v", date, err)
			s.hub.BroadcastError(err, "refresh")
			continue
		}

		items := len(view.Today.Live) + len(view.Today.Upcoming) + len(view.Past)
		s.hub.BroadcastRefresh(date, items, len(view.Picks))
		log.Printf("[refresh] %s: %d items, %d picks", date, items, len(view.Picks))
	}
}

func (s *server) today() string {
	return time.Now().In(s.loc).Format("2006-01-02")
}

// normalizeDate reduces a client-supplied date to the YYYY-MM-DD cache key.
// Datetime strings keep their date part; empty input means today in loc;
// anything that does not parse as a calendar date is rejected so arbitrary
// strings never become cache keys or upstream requests.
func normalizeDate(raw string, loc *time.Location) (string, error) {
	if raw == "" {
		return time.Now().In(loc).Format("2006-01-02"), nil
	}
	if len(raw) > 10 {
		raw = raw[:10]
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", err
	}
	return raw, nil
}
