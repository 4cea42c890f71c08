package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"troopforge.sim/internal/persistence/indexdb"
	persistlog "troopforge.sim/internal/persistence/log"
	"troopforge.sim/internal/persistence/snapshot"
	"troopforge.sim/internal/sim/catalogs"
	"troopforge.sim/internal/sim/host"
	"troopforge.sim/internal/sim/roster"
	"troopforge.sim/internal/sim/tuning"
	"troopforge.sim/internal/transport/auth"
	"troopforge.sim/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		sessionID  = flag.String("session", "session_1", "session id")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite audit/snapshot index")
		studio     = flag.Bool("studio", false, "start in studio mode (free structural editing)")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	sessionDir := filepath.Join(*dataDir, "sessions", *sessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(sessionDir, "index.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	auditLog := persistlog.NewAuditLogger(sessionDir)
	defer auditLog.Close()

	sess, err := roster.NewSession(roster.SessionConfig{
		ID:       *sessionID,
		Catalogs: cats,
		Tuning:   tune,
		Audit:    multiAuditSink{a: auditLog, b: idx},
		Logger:   logger,
	})
	if err != nil {
		logger.Fatalf("session: %v", err)
	}
	sess.SetStudioMode(*studio)

	snapDir := filepath.Join(sessionDir, "snapshots")
	toLoad := strings.TrimSpace(*snapPath)
	if toLoad == "" && *loadLatest {
		if p, ok := snapshot.LatestPath(snapDir); ok {
			toLoad = p
		}
	}
	if toLoad != "" {
		snap, err := snapshot.ReadSnapshot(toLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if snap.ItemsDigest != "" && snap.ItemsDigest != cats.Items.Digest {
			logger.Printf("snapshot items digest differs from catalogs; stale entries will be dropped")
		}
		if snap.State != nil {
			sess.RestoreState(snap.State)
		}
		logger.Printf("resumed %s at hour %d from %s", *sessionID, sess.Hours(), toLoad)
	}

	ctx, cancel := signalContext()
	defer cancel()

	snapCh := make(chan snapshot.SnapshotV1, 2)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := snapshot.PathFor(snapDir, snap.Header.Hours)
				if err := snapshot.WriteSnapshot(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, snap)
				}
			}
		}
	}()

	h := host.New(host.Config{
		Session:            sess,
		Logger:             logger,
		HoursPerMinute:     tune.HoursPerMinute,
		SnapshotEveryHours: tune.SnapshotEveryHours,
		OnSnapshot: func(state *roster.StateV1, hours uint64) {
			snap := snapshot.SnapshotV1{
				Header:       snapshot.Header{Version: 1, SessionID: *sessionID, Hours: hours},
				ItemsDigest:  cats.Items.Digest,
				TroopsDigest: cats.Troops.Digest,
				State:        state,
			}
			select {
			case snapCh <- snap:
			default:
				logger.Printf("snapshot writer busy; skipping hour %d", hours)
			}
		},
	})
	go h.Run(ctx)

	authn, err := auth.New(sessionDir)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/auth/register", authn.HandleRegister)
	mux.HandleFunc("/auth/login", authn.HandleLogin)
	mux.HandleFunc("/v1/ws", ws.NewServer(h, authn, cats.Items.Digest, cats.Troops.Digest, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shctx, shcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shcancel()
		_ = srv.Shutdown(shctx)
	}()

	logger.Printf("listening on %s (session %s, %d troops, %d items)",
		*addr, *sessionID, len(cats.Troops.Palette), len(cats.Items.Palette))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("http: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// multiAuditSink fans audit entries out to the JSONL log and, when enabled,
// the sqlite index.
type multiAuditSink struct {
	a roster.AuditSink
	b *indexdb.SQLiteIndex
}

func (m multiAuditSink) WriteAudit(e roster.AuditEntry) error {
	var err error
	if m.a != nil {
		err = m.a.WriteAudit(e)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(e)
	}
	return err
}
