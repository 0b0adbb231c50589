package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"biblios-backend/internal/lending/fine"
	"biblios-backend/internal/lending/loans"
	"biblios-backend/internal/platform/auth"
	"biblios-backend/internal/platform/db"
)

func main() {
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	lendingCfg, err := buildLendingConfig(cfg.Lending)
	if err != nil {
		panic(err)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS, dev only
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /api/v1
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn))

	lending := api.Group("", auth.RequireAuth(auth.JWTSecret()))
	loans.RegisterRoutes(lending, loans.NewService(conn, lendingCfg))

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

func buildLendingConfig(c db.LendingConfig) (loans.Config, error) {
	days := c.LoanPeriodDays
	if days <= 0 {
		days = 7
	}

	rate, err := decimal.NewFromString(c.DailyFineRate)
	if err != nil {
		return loans.Config{}, fmt.Errorf("invalid lending.daily_fine_rate %q: %w", c.DailyFineRate, err)
	}

	tag, err := language.Parse(c.Locale)
	if err != nil {
		return loans.Config{}, fmt.Errorf("invalid lending.locale %q: %w", c.Locale, err)
	}
	loc, err := fine.LocaleFor(tag)
	if err != nil {
		return loans.Config{}, err
	}

	return loans.Config{
		LoanPeriod:    time.Duration(days) * 24 * time.Hour,
		DailyFineRate: rate,
		Locale:        loc,
	}, nil
}
