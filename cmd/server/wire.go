package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"evote/internal/alert"
	"evote/internal/auditchain"
	chainstore "evote/internal/auditchain/store"
	"evote/internal/ballot"
	ballotstore "evote/internal/ballot/store"
	"evote/internal/bulletin"
	boardstore "evote/internal/bulletin/store"
	"evote/internal/credential"
	"evote/internal/credential/nonce"
	credstore "evote/internal/credential/store"
	"evote/internal/election"
	electionstore "evote/internal/election/store"
	"evote/internal/identity"
	"evote/internal/keys"
	keystore "evote/internal/keys/store"
	"evote/internal/platform/config"
	"evote/internal/platform/metrics"
	"evote/internal/platform/postgres"
	"evote/internal/platform/redis"
	"evote/internal/tally"
	tallystore "evote/internal/tally/store"
	httptransport "evote/internal/transport/http"
	"evote/migrations"
	"evote/pkg/platform/audit/publishers/security"
	auditmemory "evote/pkg/platform/audit/store/memory"
	auditpostgres "evote/pkg/platform/audit/store/postgres"
	"evote/pkg/platform/tx"
)

type anomalyStore interface {
	security.Store
	httptransport.AnomalyReader
}

// backends are the storage implementations for one process. Either every store
// is in memory behind one LocalRunner, or every store is postgres behind one
// SQLRunner, so a single RunInTx always spans every store it touches.
type backends struct {
	name      string
	runner    tx.Runner
	keys      keys.Store
	elections election.Store
	issuance  credential.IssuanceStore
	ballots   ballot.Store
	board     bulletin.Store
	tallies   tally.Store
	chain     auditchain.Store
	anomalies anomalyStore
	nonces    nonce.KV
	closers   []func()
}

type application struct {
	router    http.Handler
	publisher *security.Publisher
	alerter   *auditchain.Alerter
	backend   string
	closers   []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	b := &backends{}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := migrations.Up(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		usePostgres(b, db)
	} else {
		useMemory(b)
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		b.close()
		return nil, err
	}
	if rc != nil {
		b.nonces = nonce.NewRedisKV(rc.Client)
		b.closers = append(b.closers, func() { _ = rc.Close() })
	} else {
		b.nonces = nonce.NewInMemoryKV()
	}
	return b, nil
}

func usePostgres(b *backends, db *sql.DB) {
	b.name = "postgres"
	b.runner = tx.NewSQLRunner(db)
	b.keys = keystore.NewPostgres(db)
	b.elections = electionstore.NewPostgres(db)
	b.issuance = credstore.NewPostgres(db)
	b.ballots = ballotstore.NewPostgres(db)
	b.board = boardstore.NewPostgres(db)
	b.tallies = tallystore.NewPostgres(db)
	b.chain = chainstore.NewPostgres(db)
	b.anomalies = auditpostgres.New(db)
	b.closers = append(b.closers, func() { _ = db.Close() })
}

func useMemory(b *backends) {
	b.name = "memory"
	b.runner = tx.NewLocalRunner()
	b.keys = keystore.NewInMemory()
	b.elections = electionstore.NewInMemory()
	b.issuance = credstore.NewInMemory()
	b.ballots = ballotstore.NewInMemory()
	b.board = boardstore.NewInMemory()
	b.tallies = tallystore.NewInMemory()
	b.chain = chainstore.NewInMemory()
	b.anomalies = auditmemory.NewInMemoryStore()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func newNotifier(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (auditchain.Notifier, func(), error) {
	if len(cfg.Brokers) == 0 {
		return alert.NewLogNotifier(log), func() {}, nil
	}
	client, err := alert.NewKafkaClient(cfg.Brokers, cfg.AlertTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := alert.EnsureTopic(ctx, client, cfg.AlertTopic, cfg.Partitions); err != nil {
		// Alerts still reach the log fallback while the broker is unavailable.
		log.Warn("could not ensure alert topic", "topic", cfg.AlertTopic, "error", err)
	}
	n := alert.NewKafkaNotifier(client, cfg.AlertTopic, log)
	return n, func() { n.Close(context.Background()) }, nil
}

// build wires every service and handler.
func build(ctx context.Context, cfg config.Server, log *slog.Logger) (*application, error) {
	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open backends: %w", err)
	}

	m := metrics.New(nil)
	m.SetBackend("store", b.name)

	notifier, closeNotifier, err := newNotifier(ctx, cfg.Kafka, log)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("alert notifier: %w", err)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		m.SetBackend("alerts", "kafka")
	} else {
		m.SetBackend("alerts", "log")
	}

	publisher := security.NewPublisher(b.anomalies,
		security.WithLogger(log),
		security.WithBufferSize(cfg.Security.AnomalyBuffer),
	)
	reporter := publisher

	chain := auditchain.NewService(b.chain, b.runner, auditchain.WithLogger(log))
	keySvc := keys.NewService(b.keys,
		keys.WithLogger(log),
		keys.WithAuditRecorder(chain),
	)
	elections := election.NewService(b.elections, b.runner,
		election.WithLogger(log),
		election.WithAuditRecorder(chain),
		election.WithKeyChecker(keySvc),
	)
	credentials := credential.NewService(elections, keySvc, b.issuance,
		credential.WithLogger(log),
		credential.WithNonceStore(b.nonces, cfg.Security.IssuanceNonceTTL),
		credential.WithAnomalyReporter(reporter),
		credential.WithTxRunner(b.runner),
	)
	board := bulletin.NewService(b.board,
		bulletin.WithLogger(log),
		bulletin.WithAnomalyReporter(reporter),
	)
	ballots := ballot.NewService(elections, credentials, keySvc, b.ballots, board, b.runner,
		ballot.WithLogger(log),
		ballot.WithAnomalyReporter(reporter),
	)
	tallies := tally.NewService(b.elections, b.ballots, keySvc, b.tallies, b.runner,
		tally.WithLogger(log),
		tally.WithAuditRecorder(chain),
		tally.WithMaxReasonable(cfg.Tally.MaxReasonable),
	)
	alerter := auditchain.NewAlerter(chain, notifier,
		auditchain.WithThrottle(cfg.Security.AlertThrottle),
		auditchain.WithAlertReporter(reporter),
		auditchain.WithAlertLogger(log),
	)

	jwtSvc := identity.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	router := httptransport.NewRouter(httptransport.Handlers{
		Keys:        httptransport.NewKeyHandler(keySvc, cfg.Keys.RSABits, cfg.Keys.PaillierBits, log),
		Elections:   httptransport.NewElectionHandler(elections, log),
		Credentials: httptransport.NewCredentialHandler(credentials, log),
		Ballots:     httptransport.NewBallotHandler(ballots, log),
		Board:       httptransport.NewBoardHandler(board, log),
		Tally:       httptransport.NewTallyHandler(tallies, log),
		Audit:       httptransport.NewAuditHandler(chain, alerter, b.anomalies, log),
	}, httptransport.RouterConfig{
		Validator:      identity.NewMiddlewareAdapter(jwtSvc),
		AdminToken:     cfg.AdminAPIToken,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		Metrics:        m,
	})

	return &application{
		router:    router,
		publisher: publisher,
		alerter:   alerter,
		backend:   b.name,
		closers:   append(b.closers, closeNotifier),
	}, nil
}
