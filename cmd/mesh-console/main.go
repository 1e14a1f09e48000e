package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/datamesh/mesh-console/pkg/api"
	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/cache"
	"github.com/datamesh/mesh-console/pkg/config/v2"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/database"
	"github.com/datamesh/mesh-console/pkg/glue"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/janitor"
	"github.com/datamesh/mesh-console/pkg/leaderelection"
	"github.com/datamesh/mesh-console/pkg/lf"
	"github.com/datamesh/mesh-console/pkg/meshapi"
	"github.com/datamesh/mesh-console/pkg/requestlogger"
	"github.com/datamesh/mesh-console/pkg/service/core"
	apiclients "github.com/datamesh/mesh-console/pkg/service/core/api"
	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/routes"
	"github.com/datamesh/mesh-console/pkg/service/core/storage"
	"github.com/datamesh/mesh-console/pkg/sfn"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

var configFilePath = flag.String("config", "config.yaml", "path to config file")

var promErrs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mesh_console",
	Name:      "errors",
}, []string{"location"})

func main() {
	flag.Parse()

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})

	fileParts, err := config.ProcessConfigPath(*configFilePath)
	if err != nil {
		log.WithError(err).Fatal("processing config path")
	}

	cfg, err := config.NewFileSystemLoader().Load(fileParts.FileName, fileParts.Path, "MESH", config.NewDefaultEnvBinder())
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	err = cfg.LoadDeploymentOutputs()
	if err != nil {
		log.WithError(err).Fatal("loading deployment outputs")
	}

	err = cfg.Validate()
	if err != nil {
		log.WithError(err).Fatal("validating config")
	}

	l, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	log.SetLevel(l)

	zl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}

	zlog = zlog.Level(zl)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	repo, err := database.New(
		cfg.Postgres.ConnectionString(),
		cfg.Postgres.Configuration.MaxIdleConnections,
		cfg.Postgres.Configuration.MaxOpenConnections,
		zlog.With().Str("subsystem", "repo").Logger(),
	)
	if err != nil {
		log.WithError(err).Fatal("setting up database")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.WithError(err).Fatal("loading aws config")
	}

	meshFetcher := meshapi.New(cfg.Search.APIURL, cfg.Approvals.APIURL, cfg.Event.APIURL, httpClient)
	glueClient := glue.NewFromConfig(awsCfg, cfg.AWS.EndpointOverride, zlog.With().Str("subsystem", "glue").Logger())
	lfClient := lf.NewFromConfig(awsCfg, cfg.AWS.EndpointOverride, zlog.With().Str("subsystem", "lakeformation").Logger())
	sfnClient := sfn.NewFromConfig(awsCfg, cfg.AWS.EndpointOverride, zlog.With().Str("subsystem", "sfn").Logger())

	cacher := cache.New(time.Duration(cfg.CacheDurationSeconds)*time.Second, repo.GetDB(), zlog)

	stores := storage.NewStores(repo)
	apiClients := apiclients.NewClients(
		cacher,
		meshFetcher,
		glueClient,
		lfClient,
		sfnClient,
		cfg,
		zlog.With().Str("subsystem", "api_clients").Logger(),
	)

	tracker := invalidation.New()
	generations := invalidation.NewGenerations()
	metrics := core.NewMetrics(promErrs)

	services := core.NewServices(cfg, stores, apiClients, tracker, generations, metrics, zlog)

	cognito, err := auth.NewCognito(ctx, cfg.Oauth)
	if err != nil {
		log.WithError(err).Fatal("setting up oauth2")
	}

	gate := auth.NewRegistrationGate(cfg.Deployment.RegistrationToken)

	httpAPI := api.NewHTTP(
		cognito,
		gate,
		stores.SessionStorage,
		cfg.Cookies,
		log.WithField("subsystem", "api"),
	)

	sessionMiddleware := auth.NewMiddleware(
		stores.SessionStorage,
		cognito,
		cfg.Cookies.Session.Name,
		zlog.With().Str("subsystem", "auth").Logger(),
	)
	requireUser := auth.RequireUser(zlog.With().Str("subsystem", "auth").Logger())

	authenticatorMiddleware := func(next http.Handler) http.Handler {
		return sessionMiddleware.Handler(requireUser(next))
	}

	renderer, err := console.NewRenderer()
	if err != nil {
		log.WithError(err).Fatal("setting up console renderer")
	}

	h := handlers.NewHandlers(services, renderer, gate, tracker)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestlogger.Middleware(zlog.With().Str("subsystem", "requests").Logger(), routes.MetricsPath))

	routes.Add(router,
		routes.NewPageRoutes(routes.NewPageEndpoints(zlog, h), authenticatorMiddleware),
		routes.NewCatalogRoutes(routes.NewCatalogEndpoints(zlog, h.CatalogHandler), authenticatorMiddleware),
		routes.NewAccessRoutes(routes.NewAccessEndpoints(zlog, h.AccessHandler), authenticatorMiddleware),
		routes.NewSearchRoutes(routes.NewSearchEndpoints(zlog, h.SearchHandler), authenticatorMiddleware),
		routes.NewApprovalsRoutes(routes.NewApprovalsEndpoints(zlog, h.ApprovalsHandler), authenticatorMiddleware),
		routes.NewDataProductRoutes(routes.NewDataProductEndpoints(zlog, h.DataProductHandler), authenticatorMiddleware),
		routes.NewUserRoutes(routes.NewUserEndpoints(zlog, h), authenticatorMiddleware),
		routes.NewVersionsRoutes(routes.NewVersionsEndpoints(zlog, h.VersionsHandler), authenticatorMiddleware),
		routes.NewMetricsRoutes(routes.NewMetricsEndpoints(prom(
			append(append(repo.Metrics(), cacher.Collectors()...), metrics.Collectors()...)...,
		))),
		routes.NewAuthRoutes(routes.NewAuthEndpoints(httpAPI)),
	)

	if cfg.Debug {
		err = routes.Print(router, os.Stdout)
		if err != nil {
			log.WithError(err).Warn("printing routes")
		}
	}

	grace, err := time.ParseDuration(cfg.Janitor.SessionGracePeriod)
	if err != nil {
		grace = janitor.DefaultGracePeriod
	}

	elector, err := leaderelection.NewFromEnv(httpClient)
	if err != nil {
		log.WithError(err).Fatal("setting up leader election")
	}

	go func() {
		err := janitor.New(
			cfg.Janitor.Schedule,
			grace,
			time.Duration(cfg.Cookies.Session.MaxAge)*time.Second,
			stores.SessionCleaner,
			generations,
			promErrs,
			zlog.With().Str("subsystem", "janitor").Logger(),
		).WithLeader(elector).Run(ctx)
		if err != nil {
			log.WithError(err).Error("running janitor")
		}
	}()

	log.Infof("Listening on %s:%s", cfg.Server.Address, cfg.Server.Port)

	server := http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Address, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown error")
	}

	if err := repo.Close(); err != nil {
		log.WithError(err).Warn("Closing database")
	}
}

func prom(cols ...prometheus.Collector) *prometheus.Registry {
	r := prometheus.NewRegistry()

	r.MustRegister(promErrs)
	r.MustRegister(prometheus.NewGoCollector())
	r.MustRegister(cols...)

	return r
}
