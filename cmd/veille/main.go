package main

import (
	"os"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
