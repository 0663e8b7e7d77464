package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confreg/internal/dto"
	"confreg/internal/model"
)

func strPtr(s string) *string { return &s }

func validStudent() dto.CreateRegistrationRequest {
	return dto.CreateRegistrationRequest{
		Name:             "Ada Lovelace",
		Email:            "ada@example.com",
		RegistrationType: model.TypeStudent,
	}
}

func TestValidateAcceptsStudentWithoutCompany(t *testing.T) {
	require.NoError(t, Validate(context.Background(), validStudent()))
}

func TestValidateAcceptsProfessionalWithCompany(t *testing.T) {
	req := validStudent()
	req.RegistrationType = model.TypeProfessional
	req.Company = strPtr("Analytical Engines Ltd")
	require.NoError(t, Validate(context.Background(), req))
}

func TestValidatePhoneIsOpaque(t *testing.T) {
	req := validStudent()
	req.Phone = strPtr("not a phone at all")
	require.NoError(t, Validate(context.Background(), req))
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateRegistrationRequest)
	}{
		{"missing name", func(r *dto.CreateRegistrationRequest) { r.Name = "" }},
		{"whitespace name", func(r *dto.CreateRegistrationRequest) { r.Name = "   " }},
		{"missing email", func(r *dto.CreateRegistrationRequest) { r.Email = "" }},
		{"missing type", func(r *dto.CreateRegistrationRequest) { r.RegistrationType = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStudent()
			tt.mutate(&req)
			err := Validate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, ErrFieldsRequired, err.Error())
		})
	}
}

func TestValidateEmailShape(t *testing.T) {
	bad := []string{
		"not-an-email",
		"missing-at.example.com",
		"no-dot@example",
		"spaces in@example.com",
		"trailing@example com",
	}
	for _, email := range bad {
		t.Run(email, func(t *testing.T) {
			req := validStudent()
			req.Email = email
			err := Validate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidEmail, err.Error())
		})
	}

	good := []string{"ada@example.com", "a.b+c@sub.example.co.uk"}
	for _, email := range good {
		t.Run(email, func(t *testing.T) {
			req := validStudent()
			req.Email = email
			require.NoError(t, Validate(context.Background(), req))
		})
	}
}

func TestValidateRegistrationType(t *testing.T) {
	req := validStudent()
	req.RegistrationType = "speaker"
	err := Validate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidType, err.Error())
}

func TestValidateProfessionalRequiresCompany(t *testing.T) {
	tests := []struct {
		name    string
		company *string
	}{
		{"nil company", nil},
		{"empty company", strPtr("")},
		{"whitespace company", strPtr("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validStudent()
			req.RegistrationType = model.TypeProfessional
			req.Company = tt.company
			err := Validate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, ErrCompanyRequired, err.Error())
		})
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	req := validStudent()
	req.Email = "broken"
	first := Validate(context.Background(), req)
	second := Validate(context.Background(), req)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}
