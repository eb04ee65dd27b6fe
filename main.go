package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/topevent/topevent-go/cmd/app"
)

func main() {
	if err := app.Start(); err != nil {
		if !errors.Is(err, app.ErrCommandFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
