package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aalimaslam/ace-brainiac-admin/apps/api/echo"
	"github.com/aalimaslam/ace-brainiac-admin/core"
	"github.com/aalimaslam/ace-brainiac-admin/services/logger"
	"github.com/aalimaslam/ace-brainiac-admin/storage/inmem"
)

// The development API: serves the admin endpoints from seeded in-memory data.
func main() {
	conf, err := core.NewConfig()
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "API : ", log.LstdFlags|log.Lshortfile), conf)
	defer logger.Flush()

	db := inmemdb.NewDB()
	inmemdb.Seed(db)

	app := echoapi.NewServer(&echoapi.Options{
		Address:   conf.Server.Address,
		Debug:     conf.Debug,
		SecretKey: conf.Server.SecretKey,
		Logger:    logger,
		DB:        db,
	})
	go app.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping server", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
