package middleware

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/enet-chat/chat-server/internal/model"
)

// MaxAvatarSize is the exclusive upper bound on avatar uploads.
const MaxAvatarSize = 2 << 20

var (
	// ErrUnsupportedImageType is returned for avatars other than JPEG or PNG.
	ErrUnsupportedImageType = errors.New("unsupported image type")
	// ErrImageTooLarge is returned for avatars of 2MB or more.
	ErrImageTooLarge = errors.New("image too large")
)

// FieldErrors maps a form field to the localization key of its message.
type FieldErrors map[string]string

// ValidateMessageText validates message text.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(text) > 100000 {
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID taken from a path.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversation ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("conversation ID exceeds maximum length")
	}
	if strings.ContainsAny(id, " \t\r\n/") {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateName validates a conversation name.
func ValidateName(name string) FieldErrors {
	errs := FieldErrors{}
	switch {
	case strings.TrimSpace(name) == "":
		errs["name"] = "pleaseEnterName"
	case len(name) > 256 || !utf8.ValidString(name):
		errs["name"] = "invalidRequest"
	}
	return errs
}

// ValidateLogin checks the login form.
func ValidateLogin(req model.LoginRequest) FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, req.Email)
	if req.Password == "" {
		errs["password"] = "pleaseEnterPassword"
	}
	return errs
}

// ValidateRegister checks the registration form.
func ValidateRegister(req model.RegisterRequest) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "pleaseEnterUsername"
	}
	validateEmail(errs, req.Email)
	if req.Password == "" {
		errs["password"] = "pleaseEnterPassword"
	}
	switch {
	case req.ConfirmPassword == "":
		errs["confirm_password"] = "pleaseConfirmPassword"
	case req.ConfirmPassword != req.Password:
		errs["confirm_password"] = "passwordMismatch"
	}
	return errs
}

// ValidateProfileUpdate checks the fields present in a profile patch.
func ValidateProfileUpdate(u model.ProfileUpdate) FieldErrors {
	errs := FieldErrors{}
	if u.FullName != nil && strings.TrimSpace(*u.FullName) == "" {
		errs["full_name"] = "pleaseEnterFullName"
	}
	if u.Email != nil {
		validateEmail(errs, *u.Email)
	}
	return errs
}

// ValidateAvatar checks an uploaded avatar's content type and size.
func ValidateAvatar(contentType string, size int64) error {
	switch contentType {
	case "image/jpeg", "image/png":
	default:
		return ErrUnsupportedImageType
	}
	if size >= MaxAvatarSize {
		return ErrImageTooLarge
	}
	return nil
}

func validateEmail(errs FieldErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs["email"] = "pleaseEnterEmail"
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = "invalidEmail"
	}
}
