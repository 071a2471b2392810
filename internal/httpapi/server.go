package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/doorlog/doorlog/internal/analytics"
	"github.com/doorlog/doorlog/internal/event"
	"github.com/doorlog/doorlog/internal/store"
)

type Dependencies struct {
	Logger *log.Logger
	Addr   string
	Store  store.EventStore

	// UnlockSeconds feeds the door-left-open threshold; LatencyQueueMax
	// bounds the latency pairing queues.
	UnlockSeconds   int
	LatencyQueueMax int
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	store      store.EventStore

	unlockSeconds   int
	latencyQueueMax int
	now             func() time.Time
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:          d.Logger,
		mux:             mux,
		store:           d.Store,
		unlockSeconds:   d.UnlockSeconds,
		latencyQueueMax: d.LatencyQueueMax,
		now:             time.Now,
	}

	mux.HandleFunc("GET /api/metrics/export", s.handleExport)
	mux.HandleFunc("GET /api/metrics/full-event-timeline", s.handleTimeline)
	mux.HandleFunc("GET /api/metrics/months", s.handleMonths)
	mux.HandleFunc("GET /api/metrics/{graph}", s.handleGraph)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// graphFn maps a chart key to its derivation. Unknown keys return ok=false
// before any storage work happens.
func (s *Server) graphFn(key string) (func([]event.Record) any, bool) {
	switch key {
	case "badge-scans-per-hour":
		return func(evs []event.Record) any {
			return analytics.HourlyHistogram(evs, event.TypeBadgeScan)
		}, true
	case "door-open-duration":
		return func(evs []event.Record) any {
			return analytics.DailyOpenDurationAverage(evs)
		}, true
	case "top-badge-users":
		return func(evs []event.Record) any {
			return analytics.TopBadgeUsers(evs)
		}, true
	case "door-cycles-per-day":
		return func(evs []event.Record) any {
			return analytics.DailyCount(evs, event.TypeDoorOpened, "")
		}, true
	case "denied-badge-scans":
		return func(evs []event.Record) any {
			return analytics.DailyCount(evs, event.TypeBadgeScan, event.StatusDenied)
		}, true
	case "badge-scan-door-open-latency":
		return func(evs []event.Record) any {
			return analytics.ScanToOpenLatency(evs, s.latencyQueueMax)
		}, true
	case "manual-events":
		return func(evs []event.Record) any {
			return analytics.ManualEventsDaily(evs)
		}, true
	case "door-left-open-too-long":
		return func(evs []event.Record) any {
			return analytics.DoorLeftOpen(evs, analytics.Threshold(s.unlockSeconds))
		}, true
	case "hourly-activity-heatmap":
		return func(evs []event.Record) any {
			return analytics.WeeklyHeatmap(evs)
		}, true
	}
	return nil, false
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	build, ok := s.graphFn(r.PathValue("graph"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_graph", "no such metrics graph")
		return
	}

	q := r.URL.Query()
	start, end := resolveRange(q, s.now())

	events, err := s.store.QueryRange(r.Context(), start, end, eventTypesParam(q))
	if err != nil {
		s.logger.Printf("graph query error: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "event query failed")
		return
	}

	writeJSON(w, http.StatusOK, build(events))
}
