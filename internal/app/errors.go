package app

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/bft-labs/assetship/internal/domain"
)

const (
	setupInvalidConfigCode = "SETUP_INVALID_CONFIG"
	setupContentDirCode    = "SETUP_CONTENT_DIR_MISSING"
	setupToolMissingCode   = "SETUP_TOOL_MISSING"
	setupFailedCode        = "SETUP_FAILED"
)

// WrapSetupError classifies a failure that happens before any document is
// touched. Configuration problems are validation errors; missing tools and
// other environment problems are command errors.
func WrapSetupError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrUnknownProfile):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
			WithTextCode(setupInvalidConfigCode)
	case errors.Is(err, domain.ErrContentDir):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content directory not found").
			WithTextCode(setupContentDirCode)
	case errors.Is(err, domain.ErrToolMissing):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "required tool not found").
			WithTextCode(setupToolMissingCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "setup failed").
			WithTextCode(setupFailedCode)
	}
}

// IsConfigError reports whether err is a classified configuration failure.
func IsConfigError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}
