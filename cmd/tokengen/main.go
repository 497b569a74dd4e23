// Command tokengen prints an operator token for the debug endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/kidpech/xbox_link_demo/internal/config"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
)

func main() {
	subject := flag.String("subject", "ops", "token subject")
	role := flag.String("role", auth.RoleAdmin, "token role")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	token, expires, err := auth.NewManager(cfg.Admin).IssueToken(*subject, *role)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
	log.Printf("expires %s", expires.Format(time.RFC3339))
}
