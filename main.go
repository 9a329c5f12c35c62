package main

import (
	"organizo/config"
	"organizo/models"
	"organizo/realtime"
	"organizo/routes"
	"organizo/services"
)

func main() {
	cfg := config.Load()
	log := config.SetupLogger()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.WithField("error", err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Comment{},
		&models.Notification{},
		&models.ProfileChangeRequest{},
	); err != nil {
		log.WithField("error", err).Fatal("migration failed")
	}

	var bus realtime.Broadcaster = realtime.NewHub()
	if cfg.RedisAddr != "" {
		bus = realtime.NewRedisBroadcaster(cfg.RedisAddr)
		log.WithField("addr", cfg.RedisAddr).Info("broadcasting events over redis")
	}

	svc := services.New(db, log, bus)
	r := routes.SetupRouter(svc)

	log.WithField("addr", cfg.ListenAddr).Info("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.WithField("error", err).Fatal("server stopped")
	}
}
