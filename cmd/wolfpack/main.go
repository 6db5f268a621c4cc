package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/wolfpackhq/wolfpack/internal/app"
	"github.com/wolfpackhq/wolfpack/internal/profile"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	localFlag := flag.Bool("local", false, "run against in-process backends")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fx.New(
		app.Module(app.Params{Profile: name, Local: *localFlag}),
		fx.NopLogger,
	).Run()
}
