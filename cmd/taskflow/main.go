package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/taskflow/internal/app"
	apperrors "github.com/agbru/taskflow/internal/errors"
)

func main() {
	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitErrorConfig)
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
