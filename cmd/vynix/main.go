package main

import (
	"os"

	"github.com/hariganeshs/Vynix/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
