package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	blobmem "akita-connect/internal/adapters/blob/memory"
	mem "akita-connect/internal/adapters/storage/memory"
	pg "akita-connect/internal/adapters/storage/postgres"
	"akita-connect/internal/domain/accounts"
	"akita-connect/internal/domain/animals"
	"akita-connect/internal/domain/conversations"
	"akita-connect/internal/domain/events"
	"akita-connect/internal/domain/follows"
	"akita-connect/internal/domain/forum"
	"akita-connect/internal/domain/litters"
	"akita-connect/internal/domain/notifications"
	"akita-connect/internal/domain/profiles"
	"akita-connect/internal/domain/search"
	"akita-connect/internal/domain/uploads"
	"akita-connect/internal/middleware"
	"akita-connect/internal/ports/auth"
	"akita-connect/internal/ports/blob"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil enables the X-Debug-User-ID dev mode

	// DB selects Postgres repositories when set; in-memory otherwise.
	// PublicDB is an optional pool on restricted read-only credentials,
	// used for the public marketplace reads.
	DB       *sql.DB
	PublicDB *sql.DB

	// Blob backs file uploads; nil falls back to an in-memory store.
	Blob blob.Store

	Log zerolog.Logger

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}

	r.Use(middleware.RequestLogger(opts.Log))

	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	r.Use(metrics.Instrument)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var (
		profilesRepo      profiles.Repository
		accountsRepo      accounts.Repository
		animalsRepo       animals.Repository
		littersRepo       litters.Repository
		forumRepo         forum.Repository
		eventsRepo        events.Repository
		conversationsRepo conversations.Repository
		followsRepo       follows.Repository
		notificationsRepo notifications.Repository
	)

	if opts.DB != nil {
		profilesRepo = pg.NewProfilesRepo(opts.DB)
		accountsRepo = pg.NewAccountsRepo(opts.DB)
		animalsRepo = pg.NewAnimalsRepo(opts.DB)
		littersRepo = pg.NewLittersRepo(opts.DB)
		forumRepo = pg.NewForumRepo(opts.DB)
		eventsRepo = pg.NewEventsRepo(opts.DB)
		conversationsRepo = pg.NewConversationsRepo(opts.DB)
		followsRepo = pg.NewFollowsRepo(opts.DB)
		notificationsRepo = pg.NewNotificationsRepo(opts.DB)
	} else {
		profilesRepo = mem.NewProfilesRepo()
		accountsRepo = mem.NewAccountsRepo()
		animalsRepo = mem.NewAnimalsRepo()
		littersRepo = mem.NewLittersRepo()
		forumRepo = mem.NewForumRepo()
		eventsRepo = mem.NewEventsRepo()
		conversationsRepo = mem.NewConversationsRepo()
		followsRepo = mem.NewFollowsRepo()
		notificationsRepo = mem.NewNotificationsRepo()
	}

	blobStore := opts.Blob
	if blobStore == nil {
		blobStore = blobmem.NewStore()
	}

	notificationsSvc := notifications.NewService(notificationsRepo, opts.Log)
	profilesSvc := profiles.NewService(profilesRepo)
	accountsSvc := accounts.NewService(accountsRepo, profilesSvc, opts.JWTSecret, opts.TokenTTL)
	animalsSvc := animals.NewService(animalsRepo)
	littersSvc := litters.NewService(littersRepo, animalsSvc, profilesSvc, notificationsSvc)
	forumSvc := forum.NewService(forumRepo, notificationsSvc, opts.Log)
	eventsSvc := events.NewService(eventsRepo, notificationsSvc)
	conversationsSvc := conversations.NewService(conversationsRepo, notificationsSvc, opts.Log)
	followsSvc := follows.NewService(followsRepo, profilesSvc, notificationsSvc)
	searchSvc := search.NewService(profilesSvc, animalsSvc, forumSvc, eventsSvc, opts.Log)
	uploadsSvc := uploads.NewService(blobStore)

	if opts.PublicDB != nil {
		littersSvc.UsePublicReads(pg.NewLittersRepo(opts.PublicDB))
	}

	accounts.RegisterRoutes(r, accountsSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	animals.RegisterRoutes(r, animalsSvc)
	litters.RegisterRoutes(r, littersSvc)
	forum.RegisterRoutes(r, forumSvc)
	events.RegisterRoutes(r, eventsSvc)
	conversations.RegisterRoutes(r, conversationsSvc)
	follows.RegisterRoutes(r, followsSvc)
	notifications.RegisterRoutes(r, notificationsSvc)
	search.RegisterRoutes(r, searchSvc)
	uploads.RegisterRoutes(r, uploadsSvc)

	return r
}
