package commands

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

type stage int

const (
	stageValidate stage = iota
	stageContext
	stageExecute
)

type classification struct {
	category goerrors.Category
	code     string
	message  string
}

// classify wraps err with the category of the stage it failed in. Errors that
// already carry a category pass through untouched so domain codes survive.
func classify(s stage, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	c := classificationFor(s, err)
	return goerrors.Wrap(err, c.category, c.message).WithTextCode(c.code)
}

func classificationFor(s stage, err error) classification {
	var fieldErrs validation.Errors
	switch {
	case s == stageValidate:
		return classification{goerrors.CategoryValidation, "SITE_COMMAND_INVALID", "command validation failed"}
	case errors.Is(err, context.Canceled):
		return classification{goerrors.CategoryCommand, "SITE_COMMAND_CANCELED", "command execution cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return classification{goerrors.CategoryCommand, "SITE_COMMAND_TIMEOUT", "command execution deadline exceeded"}
	case s == stageExecute && errors.As(err, &fieldErrs):
		return classification{goerrors.CategoryValidation, "SITE_COMMAND_REJECTED", "command rejected by service"}
	case s == stageContext:
		return classification{goerrors.CategoryCommand, "SITE_COMMAND_CONTEXT", "command context error"}
	default:
		return classification{goerrors.CategoryCommand, "SITE_COMMAND_FAILED", "command execution failed"}
	}
}
