package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/authcore/internal/auth/usecase"
)

// RunRevokeToken revokes a stored token by its identifier. Revoked tokens keep
// their row for audit purposes but fail resolution from that point on.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeToken(
	ctx context.Context,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	w io.Writer,
	tokenID int64,
	format string,
) error {
	if tokenID <= 0 {
		return fmt.Errorf("token id must be a positive number, got: %d", tokenID)
	}

	logger.Info("revoking token", slog.Int64("token_id", tokenID))

	if err := tokenUseCase.Revoke(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if format == "json" {
		outputRevokeTokenJSON(w, tokenID)
	} else {
		fmt.Fprintf(w, "Successfully revoked token %d\n", tokenID)
	}

	logger.Info("token revoked", slog.Int64("token_id", tokenID))

	return nil
}

// outputRevokeTokenJSON outputs the result in JSON format for machine consumption.
func outputRevokeTokenJSON(w io.Writer, tokenID int64) {
	result := map[string]interface{}{
		"token_id": tokenID,
		"revoked":  true,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(w, string(jsonBytes))
}
