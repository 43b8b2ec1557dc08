package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PauloHFS/goth-blog/internal/db"
	"github.com/PauloHFS/goth-blog/internal/logging"
	"github.com/PauloHFS/goth-blog/internal/validator"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

type createUserArgs struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	IsStaff     bool
	IsSuperuser bool
}

func parseCreateUserArgs(args []string) (createUserArgs, error) {
	var a createUserArgs
	fs := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	fs.StringVar(&a.FirstName, "first-name", "", "first name shown as post author")
	fs.StringVar(&a.LastName, "last-name", "", "last name")
	fs.BoolVar(&a.IsStaff, "staff", false, "mark the user as staff")
	fs.BoolVar(&a.IsSuperuser, "superuser", false, "mark the user as superuser")
	if err := fs.Parse(args); err != nil {
		return a, err
	}
	if fs.NArg() != 2 {
		return a, fmt.Errorf("usage: create-user <email> <password> [--staff] [--superuser] [--first-name NAME] [--last-name NAME]")
	}
	a.Email, a.Password = fs.Arg(0), fs.Arg(1)

	if res := validator.ValidateCredentials(a.Email, a.Password); !res.Valid {
		return a, fmt.Errorf("invalid credentials: %v", res.FieldErrors())
	}
	return a, nil
}

func RunCreateUser() {
	logging.Init()

	args, err := parseCreateUserArgs(os.Args[2:])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := initDB(ctx)
	if err != nil {
		fatal("failed to prepare database", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(args.Password), bcrypt.DefaultCost)
	if err != nil {
		fatal("failed to hash password", err)
	}

	user, err := pool.QueriesWrite().CreateUser(ctx, db.CreateUserParams{
		Email:        args.Email,
		PasswordHash: string(hash),
		FirstName:    args.FirstName,
		LastName:     args.LastName,
		IsStaff:      args.IsStaff,
		IsSuperuser:  args.IsSuperuser,
	})
	if err != nil {
		fmt.Printf("failed to create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("User %s created successfully (staff=%t, superuser=%t)\n", user.Email, user.IsStaff, user.IsSuperuser)
}
