package services

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	"github.com/dmitrijs2005/timecapsule/internal/client/auth"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/client/upload"
	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

const (
	MessageCancelled      = "Cancelled."
	MessageWrongPass      = "Wrong passphrase."
	MessageStorageFailure = "The file could not be uploaded. Please try again."
	MessageNoMedia        = "Upload at least one file first."
	MessageInternal       = "Something went wrong. Please try again."
)

// Message turns an error from any layer into the text shown to the user.
// Local problems (validation, form, terms) are described as they are;
// backend failures go through client.UserMessage.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var verr *media.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var ferr *wizard.FormError
	if errors.As(err, &ferr) {
		parts := make([]string, 0, len(ferr.Fields))
		for _, f := range ferr.Fields {
			parts = append(parts, f.Message)
		}
		return capitalize(strings.Join(parts, "; ")) + "."
	}

	switch {
	case errors.Is(err, context.Canceled):
		return MessageCancelled
	case errors.Is(err, common.ErrorInternal):
		return MessageInternal
	case errors.Is(err, auth.ErrWrongPassphrase):
		return MessageWrongPass
	case errors.Is(err, common.ErrNoToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return client.MessageUnauthorized
	case errors.Is(err, ErrNothingUploaded):
		return MessageNoMedia
	case errors.Is(err, capsule.ErrCustomDateMissing),
		errors.Is(err, capsule.ErrCustomDateInPast),
		errors.Is(err, wizard.ErrTermsNotAccepted),
		errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrPaymentNotReady),
		errors.Is(err, wizard.ErrNotHost),
		errors.Is(err, wizard.ErrParticipantsPending),
		errors.Is(err, wizard.ErrAlreadyFinalized):
		return capitalize(innermost(err).Error()) + "."
	}

	var uerr *upload.UploadError
	if errors.As(err, &uerr) && uerr.Stage == upload.StageUpload {
		return MessageStorageFailure
	}

	return client.UserMessage(err)
}

func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
