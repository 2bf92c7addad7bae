package main

import (
	"os"

	"elitesite-backend/cmd/contact/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
