package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	blobs3 "akita-connect/internal/adapters/blob/s3"
	"akita-connect/internal/adapters/auth/jwtauth"
	"akita-connect/internal/adapters/storage/postgres"
	"akita-connect/internal/config"
	"akita-connect/internal/platform/logger"
	"akita-connect/internal/ports/auth"
	"akita-connect/internal/ports/blob"
	"akita-connect/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var db, publicDB *sql.DB
	if cfg.DSN != "" {
		var err error
		db, err = postgres.Open(cfg.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
	} else {
		log.Warn().Msg("no DB_DSN set, using in-memory storage")
	}
	if cfg.PublicDSN != "" {
		var err error
		publicDB, err = postgres.Open(cfg.PublicDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("public database connection failed")
		}
		defer publicDB.Close()
	}

	var blobStore blob.Store
	if cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Store, err := blobs3.New(ctx, blobs3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			PublicURL: cfg.S3PublicURL,
		})
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("blob store init failed")
		}
		blobStore = s3Store
	}

	// Without a secret the router runs in dev mode and trusts X-Debug-User-ID.
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret)
	} else {
		log.Warn().Msg("no JWT_SECRET set, running in debug auth mode")
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		PublicDB:     publicDB,
		Blob:         blobStore,
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		CORSOrigins:  cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
