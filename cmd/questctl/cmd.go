package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/yungbote/questlearn-backend/internal/catalog"
	types "github.com/yungbote/questlearn-backend/internal/domain"
	"github.com/yungbote/questlearn-backend/internal/learning/leveling"
	"github.com/yungbote/questlearn-backend/internal/services"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type catalogSeeder interface {
	SeedCatalog(ctx context.Context, files ...string) (catalog.Result, error)
}

type registrar interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
}

type userStore interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	UpdateXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalXP, level int) error
}

type resyncer interface {
	Resync(ctx context.Context) error
}

type commandLine struct {
	out         io.Writer
	seeder      catalogSeeder
	registrar   registrar
	users       userStore
	leaderboard resyncer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed [-file catalog.yaml]...            - upsert the course catalog (embedded catalog by default)")
	fmt.Fprintln(cli.out, "  create-user -email EMAIL -username NAME - create a user; the password is prompted next")
	fmt.Fprintln(cli.out, "  relevel                                 - recompute every user's level from total XP")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	var files fileList
	seedCmd.Var(&files, "file", "catalog YAML file (repeatable)")

	createUserCmd := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := createUserCmd.String("email", "", "The user's email.")
	username := createUserCmd.String("username", "", "The user's username.")

	switch args[1] {
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		res, err := cli.seeder.SeedCatalog(ctx, files...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "courses: %d created, %d updated\n", res.CoursesCreated, res.CoursesUpdated)
		fmt.Fprintf(cli.out, "lessons: %d created, %d updated\n", res.LessonsCreated, res.LessonsUpdated)
		fmt.Fprintf(cli.out, "questions: %d created, %d updated\n", res.QuestionsCreated, res.QuestionsUpdated)
		fmt.Fprintf(cli.out, "achievements: %d created, %d updated\n", res.AchievementsCreated, res.AchievementsUpdated)
		return nil

	case "create-user":
		if err := createUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *email == "" || *username == "" {
			createUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createUserCmd.Usage()
			return errHelp
		}
		res, err := cli.registrar.Register(ctx, services.RegisterInput{Email: *email, Username: *username, Password: string(pwd)})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "created user %s (%s)\n", res.User.Username, res.User.ID)
		return nil

	case "relevel":
		changed, err := cli.relevel(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "releveled %d users\n", changed)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

// relevel fixes current_level on rows written under an older formula, then
// rebuilds the leaderboard so it agrees with the database.
func (cli *commandLine) relevel(ctx context.Context) (int, error) {
	users, err := cli.users.ListAll(ctx, nil)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, u := range users {
		want := leveling.LevelForXP(u.TotalXP)
		if u.CurrentLevel == want {
			continue
		}
		if err := cli.users.UpdateXP(ctx, nil, u.ID, u.TotalXP, want); err != nil {
			return changed, fmt.Errorf("user %s: %w", u.ID, err)
		}
		changed++
	}
	if cli.leaderboard != nil {
		if err := cli.leaderboard.Resync(ctx); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

type fileList []string

func (l *fileList) String() string { return fmt.Sprint(*l) }

func (l *fileList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
