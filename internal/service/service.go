package service

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"confreg/internal/dto"
	"confreg/internal/model"
	"confreg/internal/rabbit"
	"confreg/internal/repo"
	"confreg/pkg/validator"
)

type Service interface {
	Register(ctx *ginext.Context)
	GetRegistrations(ctx *ginext.Context)
	GetStatistics(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	rbt  *rabbit.Client
}

// NewService wires the HTTP handlers. rbt may be nil, in which case no
// confirmation-email messages are published.
func NewService(repo repo.Repository, logger *zerolog.Logger, rbt *rabbit.Client) Service {
	return &service{
		repo: repo,
		log:  logger,
		rbt:  rbt,
	}
}

func (s *service) Register(ctx *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse registration request")
		dto.BadRequestError(ctx, dto.MsgInvalidBody)
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, verr.Error())
		return
	}

	// Fast-path duplicate check. Two concurrent registrations for the same
	// email can both pass it; the unique constraint on the table is the
	// authoritative guard and surfaces below as ErrDuplicateEmail.
	exists, err := s.repo.EmailExists(ctx.Request.Context(), req.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to check email before insert")
		dto.InternalServerError(ctx, dto.MsgCreateFailed)
		return
	}
	if exists {
		dto.DuplicateEmailError(ctx)
		return
	}

	registration := &model.Registration{
		Name:             req.Name,
		Email:            req.Email,
		RegistrationType: req.RegistrationType,
		Company:          normalizeOptional(req.Company),
		Phone:            normalizeOptional(req.Phone),
	}

	id, err := s.repo.InsertRegistration(ctx.Request.Context(), registration)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			dto.DuplicateEmailError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to insert registration")
		dto.InternalServerError(ctx, dto.MsgCreateFailed)
		return
	}

	s.log.Info().
		Int64("registration_id", id).
		Str("registration_type", registration.RegistrationType).
		Msg("registration created successfully")

	s.publishConfirmation(id, registration.Email)

	dto.SuccessCreatedResponse(ctx, id)
}

func (s *service) GetRegistrations(ctx *ginext.Context) {
	if email := ctx.Query("checkEmail"); email != "" {
		s.checkEmailAvailability(ctx, email)
		return
	}

	typeFilter := ctx.Query("type")
	if !model.ValidType(typeFilter) {
		typeFilter = ""
	}

	sortBy := ctx.DefaultQuery("sortBy", "created_at")
	ascending := strings.EqualFold(ctx.Query("order"), "ASC")

	regs, err := s.repo.ListRegistrations(ctx.Request.Context(), typeFilter, sortBy, ascending)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx, dto.MsgFetchFailed)
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}

	dto.SuccessResponse(ctx, regs)
}

// checkEmailAvailability is interactive form feedback only; a registration
// for the same email may still land between this check and the submit.
func (s *service) checkEmailAvailability(ctx *ginext.Context, email string) {
	exists, err := s.repo.EmailExists(ctx.Request.Context(), email)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to check email availability")
		dto.InternalServerError(ctx, dto.MsgCheckEmailFailed)
		return
	}
	dto.EmailAvailabilityResponse(ctx, !exists)
}

// GetStatistics issues three independent counts; each is its own snapshot,
// so a write landing between them can skew total against the per-type sums.
func (s *service) GetStatistics(ctx *ginext.Context) {
	total, err := s.repo.CountRegistrations(ctx.Request.Context(), "")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx, dto.MsgStatisticsFailed)
		return
	}

	students, err := s.repo.CountRegistrations(ctx.Request.Context(), model.TypeStudent)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count student registrations")
		dto.InternalServerError(ctx, dto.MsgStatisticsFailed)
		return
	}

	professionals, err := s.repo.CountRegistrations(ctx.Request.Context(), model.TypeProfessional)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count professional registrations")
		dto.InternalServerError(ctx, dto.MsgStatisticsFailed)
		return
	}

	dto.SuccessResponse(ctx, dto.StatisticsData{
		Total:         total,
		Students:      students,
		Professionals: professionals,
	})
}

func (s *service) publishConfirmation(id int64, email string) {
	if s.rbt == nil {
		return
	}

	msg := dto.RegistrationEmailMessage{
		RegistrationID: id,
		Email:          email,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal confirmation message")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish confirmation message to RabbitMQ")
	}
}

func normalizeOptional(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
