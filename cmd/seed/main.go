package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"walkindesk/internal/config"
	"walkindesk/internal/database"
	"walkindesk/internal/modules/sandbox"
	"walkindesk/internal/repository"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for DESK_AGENTS and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash failed:", err)
		}
		fmt.Println(string(hash))
		return
	}

	config.LoadDotEnv()
	cfg, err := config.LoadSandbox()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	// AutoMigrate to ensure schema is up to date
	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	existing, err := repository.NewAirportRepository(db).List(ctx)
	if err != nil {
		log.Fatal("list airports failed:", err)
	}
	if len(existing) > 0 {
		log.Printf("%d airports already present, nothing to do", len(existing))
		os.Exit(0)
	}

	fx, err := sandbox.Seed(ctx, db, time.Now())
	if err != nil {
		log.Fatal("seed failed:", err)
	}

	log.Println("Seed complete")
	log.Printf("Airports: %s %s, %s %s, %s %s",
		fx.Delhi.Code, fx.Delhi.ID, fx.Mumbai.Code, fx.Mumbai.ID, fx.Bengaluru.Code, fx.Bengaluru.ID)
	log.Printf("Returning customer: %s %s (%s)", fx.Customer.FirstName, fx.Customer.LastName, fx.Customer.Phone)
	log.Printf("In-progress booking %s ends %s", fx.InProgressID, fx.InProgressEndsAt.Format(time.RFC3339))
	log.Printf("Upcoming booking %s", fx.UpcomingID)
}
