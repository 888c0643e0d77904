package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jmorales-dev/estudio-backend/pkg"
)

// generates the bcrypt hash for the admin password, to be set
// via the ESTUDIO_ADMIN_PASSWORD_HASH env var on the service host
func main() {
	password := flag.String("password", "", "admin password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Println("usage: hashgen -password <admin-password>")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("hash password: %s\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
