package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wb-go/wbf/zlog"

	"confreg/internal/dto"
	"confreg/internal/mailer"
	"confreg/internal/rabbit"
	"confreg/internal/repo"
)

// Reader consumes confirmation-email messages published after each
// successful registration and delivers the email over SMTP.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	smtp   *mailer.SMTPConfig
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, smtp *mailer.SMTPConfig) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repo,
		smtp: smtp,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("confirmation email worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.RegistrationEmailMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal message: %s", string(body))
				// Malformed messages can never succeed; drop instead of requeueing.
				return nil
			}

			zlog.Logger.Info().
				Int64("registration_id", msg.RegistrationID).
				Msg("received confirmation email job")

			reg, err := r.repo.GetRegistrationByID(cctx, msg.RegistrationID)
			if errors.Is(err, repo.ErrRegistrationNotFound) {
				zlog.Logger.Warn().
					Int64("registration_id", msg.RegistrationID).
					Msg("registration no longer exists, skipping email")
				return nil
			}
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("registration_id", msg.RegistrationID).
					Msg("failed to load registration for email")
				return err
			}

			if !r.smtp.Enabled() {
				zlog.Logger.Info().
					Str("email", reg.Email).
					Msg("SMTP not configured, skipping confirmation email")
				return nil
			}

			if err := mailer.SendConfirmationEmail(&zlog.Logger, r.smtp, reg); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("email", reg.Email).
					Msg("failed to send confirmation email")
				return err
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("confirmation email worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
