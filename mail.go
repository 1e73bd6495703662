package main

import (
	"github.com/rs/zerolog"

	"clinicconnect/config"
	"clinicconnect/utils"
)

// newMailer sends appointment confirmations through SendGrid when a key is
// configured and drops them otherwise.
func newMailer(cfg *config.Config, logger zerolog.Logger) utils.Mailer {
	if cfg.SendGridAPIKey == "" {
		logger.Info().Msg("SENDGRID_API_KEY not set, appointment emails disabled")
		return utils.NopMailer{}
	}
	return utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom)
}
