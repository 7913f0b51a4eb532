package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yungbote/questlearn-backend/internal/app"
)

func main() {
	a, err := app.NewCore()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cli := &commandLine{
		out:         os.Stdout,
		seeder:      a,
		registrar:   a.Services.Auth,
		users:       a.Repos.User,
		leaderboard: a.Services.Leaderboard,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Printf("error: %v\n", err)
		}
		a.Close()
		os.Exit(1)
	}
}
