package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	userDomain "github.com/allisson/authcore/internal/user/domain"
	userUsecase "github.com/allisson/authcore/internal/user/usecase"
)

// RunCreateUser registers a new user account. When the password flag is omitted
// the command prompts for it on stdin so the secret does not land in shell history.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	io IOTuple,
	name, email, password, format string,
) error {
	if password == "" {
		fmt.Fprint(io.Writer, "Password: ")
		scanner := bufio.NewScanner(io.Reader)
		if !scanner.Scan() {
			return fmt.Errorf("failed to read password: %w", scanner.Err())
		}
		password = strings.TrimSpace(scanner.Text())
	}

	logger.Info("creating user", slog.String("email", email))

	user, err := userUseCase.RegisterUser(ctx, userUsecase.RegisterUserInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputCreateUserJSON(io, user)
	} else {
		fmt.Fprintf(io.Writer, "Successfully created user %d (%s)\n", user.ID, user.Email)
	}

	logger.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(io IOTuple, user *userDomain.User) {
	result := map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(io.Writer, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(io.Writer, string(jsonBytes))
}
