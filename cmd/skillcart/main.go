package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/skillcart/skillcart/config"
	"github.com/skillcart/skillcart/internal/adminapi"
	"github.com/skillcart/skillcart/internal/api"
	"github.com/skillcart/skillcart/internal/app"
	"github.com/skillcart/skillcart/internal/catalog"
	"github.com/skillcart/skillcart/internal/mailer"
	"github.com/skillcart/skillcart/internal/orders"
	"github.com/skillcart/skillcart/internal/pages"
	"github.com/skillcart/skillcart/internal/settings"
	"github.com/skillcart/skillcart/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema")
)

var (
	BuildVersion = "dev"
	ReleaseDate  = ""
)

func printVersion() {
	fmt.Printf("skillcart %s %s\n", BuildVersion, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database schema recreated")
		os.Exit(0)
	}

	db := application.DB()
	catalogRepo := catalog.NewGormRepository(db)
	orderRepo := orders.NewGormRepository(db)
	siteSettings := settings.NewService(db)

	dispatcher, err := mailer.NewDispatcher(cfg.Smtp, cfg.System.SiteURL, siteSettings)
	if err != nil {
		zap.S().Fatalf("mailer init failed: %v", err)
	}
	orderService := orders.NewService(orderRepo, catalogRepo, dispatcher)

	ws := webserver.NewWebServer(cfg)
	api.NewHandler(catalogRepo, orderService, siteSettings, cfg.GetUploadDir()).Register(ws.API())
	adminapi.NewHandler(cfg, catalogRepo, orderService, siteSettings).Register(ws.Root(), ws.Admin())
	pages.NewHandler(catalogRepo, orderService, siteSettings).Register(ws.Root())

	go func() {
		if err := ws.Start(); err != nil {
			zap.S().Fatalf("web server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")
}
