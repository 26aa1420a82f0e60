package main

import (
	"os"

	"github.com/firefly-engineering/check-eternus-advcopy/cmd"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/errors"
)

func main() {
	os.Exit(errors.GetExitCode(cmd.Execute()))
}
