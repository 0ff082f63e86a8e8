package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/johnquangdev/coachlink/pkg/config"
	pkgjwt "github.com/johnquangdev/coachlink/pkg/jwt"
)

func main() {
	operator := flag.String("operator", "", "operator email the token is issued to")
	flag.Parse()

	if *operator == "" {
		log.Fatal("❌ -operator is required")
	}

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.AdminSecret, cfg.JWT.AdminExpiry)

	token, err := jwtManager.GenerateToken(*operator, pkgjwt.ScopeMeetingsRead)
	if err != nil {
		log.Fatalf("❌ Failed to generate token: %v", err)
	}

	log.Printf("🔑 Token for %s (expires in %s)", *operator, jwtManager.GetExpiry())
	fmt.Println(token)
}
