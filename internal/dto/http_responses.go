package dto

import (
	"github.com/wb-go/wbf/ginext"
)

const (
	MsgRegistrationSuccess = "Registration successful"
	MsgDuplicateEmail      = "Email is already registered"
	MsgInvalidBody         = "Invalid request body"
	MsgCreateFailed        = "Failed to create registration"
	MsgFetchFailed         = "Failed to fetch registrations"
	MsgStatisticsFailed    = "Failed to fetch statistics"
	MsgCheckEmailFailed    = "Failed to check email availability"
)

type CreateRegistrationRequest struct {
	Name             string  `json:"name" validate:"required,notblank"`
	Email            string  `json:"email" validate:"required,email_format"`
	RegistrationType string  `json:"registration_type" validate:"required,registration_type"`
	Company          *string `json:"company"`
	Phone            *string `json:"phone"`
}

type RegistrationCreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type StatisticsData struct {
	Total         int `json:"total"`
	Students      int `json:"students"`
	Professionals int `json:"professionals"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// RegistrationEmailMessage is the payload published to RabbitMQ after a
// successful registration; the consumer worker turns it into an email.
type RegistrationEmailMessage struct {
	RegistrationID int64  `json:"registration_id"`
	Email          string `json:"email"`
}

func BadRequestError(c *ginext.Context, desc string) {
	c.JSON(400, ErrorResponse{Error: desc})
}

func DuplicateEmailError(c *ginext.Context) {
	c.JSON(409, ErrorResponse{Error: MsgDuplicateEmail})
}

func InternalServerError(c *ginext.Context, desc string) {
	c.JSON(500, ErrorResponse{Error: desc})
}

func SuccessCreatedResponse(c *ginext.Context, id int64) {
	c.JSON(201, RegistrationCreatedResponse{
		Success: true,
		Message: MsgRegistrationSuccess,
		ID:      id,
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, ListResponse{Success: true, Data: data})
}

func EmailAvailabilityResponse(c *ginext.Context, available bool) {
	c.JSON(200, AvailabilityResponse{Available: available})
}
