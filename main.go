package main

import (
	"os"

	"github.com/scan-io-git/sonar-reporter/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
