//go:build ignore

// Prints an ADMIN_PASSWORD_HASH value for the given password.
//
//	go run scripts/generate_password.go <password> [cost]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jupani/storefront/internal/pkg/auth"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: go run scripts/generate_password.go <password> [cost]")
	}

	password := os.Args[1]
	cost := 12
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logrus.Fatalf("Invalid cost %q: %v", os.Args[2], err)
		}
		cost = parsed
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		logrus.Fatalf("Error generating hash: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		logrus.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
