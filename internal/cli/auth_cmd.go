// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - backend authentication commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/mangaba/internal/auth"
	"github.com/jeranaias/mangaba/internal/backend"
)

// HandleAuth dispatches the auth subcommands.
func HandleAuth(app *App, args Args) error {
	switch args.Subcommand {
	case "login", "":
		return handleLogin(app, args)
	case "register":
		return handleRegister(app, args)
	case "logout":
		return handleLogout(app)
	case "whoami":
		return handleWhoami(app, args)
	default:
		return fmt.Errorf("unknown auth subcommand %q", args.Subcommand)
	}
}

func handleLogin(app *App, args Args) error {
	email, password, err := promptCredentials(args, false)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.BackendTimeout())
	defer cancel()

	data, err := app.Backend.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return fmt.Errorf("login failed: invalid email or password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := saveAuth(app, data); err != nil {
		return err
	}
	app.Logs.Log("info", "auth", "logged in as "+data.User.Email)
	fmt.Println(SuccessStyle.Render("logged in as ") + ValueStyle.Render(data.User.Name))
	return nil
}

func handleRegister(app *App, args Args) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(RenderLabel("Name: "))
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	email, password, err := promptCredentials(args, true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.Config.BackendTimeout())
	defer cancel()

	data, err := app.Backend.Register(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := saveAuth(app, data); err != nil {
		return err
	}
	app.Logs.Log("info", "auth", "registered account "+data.User.Email)
	fmt.Println(SuccessStyle.Render("account created for ") + ValueStyle.Render(data.User.Name))
	return nil
}

func handleLogout(app *App) error {
	if err := app.Creds.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	app.Logs.Log("info", "auth", "logged out")
	fmt.Println(SuccessStyle.Render("logged out"))
	return nil
}

func handleWhoami(app *App, args Args) error {
	cred, err := app.Creds.Load()
	if err != nil {
		if errors.Is(err, backend.ErrNoCredential) || errors.Is(err, auth.ErrNoCredential) {
			fmt.Println(DimStyle.Render("not logged in"))
			return nil
		}
		return err
	}

	fmt.Println(RenderLabel("User:  ") + ValueStyle.Render(cred.UserName))
	fmt.Println(RenderLabel("Email: ") + ValueStyle.Render(cred.Email))
	fmt.Println(RenderLabel("Since: ") + DimStyle.Render(cred.SavedAt.Format(time.RFC1123)))

	if args.Verbose {
		// Confirm the token still works against the backend.
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.BackendTimeout())
		defer cancel()
		if _, err := app.Backend.Profile(ctx); err != nil {
			fmt.Println(RenderLabel("Token: ") + RenderStatus("fail"))
		} else {
			fmt.Println(RenderLabel("Token: ") + RenderStatus("ok"))
		}
	}
	return nil
}

// promptCredentials reads an email and password from the terminal. The
// password never echoes. confirm asks for the password twice.
func promptCredentials(args Args, confirm bool) (email, password string, err error) {
	if len(args.Raw) > 0 {
		email = args.Raw[0]
	} else {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print(RenderLabel("Email: "))
		line, readErr := reader.ReadString('\n')
		if readErr != nil {
			return "", "", fmt.Errorf("read email: %w", readErr)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	password, err = ReadPassword(RenderLabel("Password: "))
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	if confirm {
		again, err := ReadPassword(RenderLabel("Confirm password: "))
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}
	return email, password, nil
}

func saveAuth(app *App, data *backend.AuthData) error {
	cred := auth.Credential{
		Token:        data.Token,
		RefreshToken: data.RefreshToken,
		UserID:       data.User.ID,
		UserName:     data.User.Name,
		Email:        data.User.Email,
		SavedAt:      time.Now(),
	}
	if err := app.Creds.Save(cred); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
