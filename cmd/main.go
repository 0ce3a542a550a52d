package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"balloonshop/cart"
	"balloonshop/config"
	"balloonshop/controllers"
	"balloonshop/database"
	"balloonshop/identity"
	"balloonshop/logger"
	"balloonshop/mail"
	"balloonshop/routes"
	"balloonshop/storage"
	"balloonshop/tables"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	zl, err := logger.New(cfg.Development())
	if err != nil {
		log.Fatal("logger init: ", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()

	var mongoDB *mongo.Database
	if cfg.TableBackend == "mongo" || cfg.CartStorage == "mongo" {
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			zl.Fatal("mongo connection", zap.Error(err))
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoDB = db
		zl.Info("connected to mongo", zap.String("db", cfg.DBName))
	}

	var store tables.Client
	switch cfg.TableBackend {
	case "mongo":
		store = tables.NewMongo(mongoDB)
	case "postgres":
		db, err := database.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			zl.Fatal("postgres connection", zap.Error(err))
		}
		defer db.Close()
		store = tables.NewPostgres(db)
		zl.Info("connected to postgres")
	default:
		mem := tables.NewMemory()
		database.SeedDemo(mem)
		store = mem
		zl.Warn("using in-memory tables with demo catalog")
	}

	var carts storage.KV
	if cfg.CartStorage == "mongo" {
		carts = storage.NewMongo(mongoDB.Collection(database.CartCollection))
	} else {
		carts = storage.NewMemory()
	}

	var mailer mail.Sender = mail.Noop{}
	if cfg.SendGridAPIKey != "" && cfg.MailFrom != "" {
		mailer = mail.NewSendGridClient(cfg.SendGridAPIKey, cfg.MailFrom, zl)
	}

	var resolver identity.Resolver = identity.Static(identity.Anonymous)
	if cfg.JWTSecret != "" {
		resolver = identity.NewVerifier(cfg.JWTSecret)
	} else {
		zl.Warn("JWT_SECRET not set, admin routes are unreachable")
	}

	env := &controllers.Env{
		Tables:   store,
		Carts:    carts,
		Sessions: cart.NewSessions(),
		Mailer:   mailer,
		Logger:   zl,
		Timeout:  cfg.RequestTimeout,
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, env, resolver, cfg.CORSOrigins)

	zl.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
