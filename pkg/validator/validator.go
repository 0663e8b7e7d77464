package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"confreg/internal/dto"
	"confreg/internal/model"
)

var (
	global     *validator.Validate
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	ErrFieldsRequired  = "Name, email, and registration type are required"
	ErrInvalidEmail    = "Invalid email format"
	ErrInvalidType     = "Registration type must be either student or professional"
	ErrCompanyRequired = "Company is required for professional registration"
	ErrUnknown         = "Invalid registration data"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("email_format", validateEmailFormat)
	_ = v.RegisterValidation("registration_type", validateRegistrationType)
	v.RegisterStructValidation(validateRegistrationRequest, dto.CreateRegistrationRequest{})
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func validateRegistrationType(fl validator.FieldLevel) bool {
	return model.ValidType(fl.Field().String())
}

// Company is only mandatory for professional registrations, so it cannot be
// expressed as a field tag.
func validateRegistrationRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateRegistrationRequest)
	if req.RegistrationType != model.TypeProfessional {
		return
	}
	if req.Company == nil || strings.TrimSpace(*req.Company) == "" {
		sl.ReportError(req.Company, "Company", "company", "company_required", "")
	}
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

// parseValidationErrors reports the first violation only; the client-side
// form mirrors the same rules and shows per-field errors itself.
func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required", "notblank":
		msg = ErrFieldsRequired
	case "email_format":
		msg = ErrInvalidEmail
	case "registration_type":
		msg = ErrInvalidType
	case "company_required":
		msg = ErrCompanyRequired
	default:
		msg = ErrUnknown
	}
	return errors.New(msg)
}
