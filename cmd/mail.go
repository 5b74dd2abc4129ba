package cmd

import (
	"log"

	"github.com/ardanpr/expense-report-portal/internal/notification"
	"github.com/ardanpr/expense-report-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var mailTestCmd = &cobra.Command{
	Use:   "mailtest [recipient]",
	Short: "Send a test credential mail through the configured SMTP relay",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)
		lg := logger.L()

		if !cfg.SMTP.Configured() {
			log.Fatal("smtp is not configured; set SMTP_HOST, SMTP_USERNAME and SMTP_PASSWORD")
		}

		mailer := notification.NewSMTPMailer(cfg.SMTP, lg)
		if err := mailer.SendCredentials(args[0], "00000000", "test-password-only"); err != nil {
			log.Fatalf("test mail failed: %v", err)
		}
		lg.Info("test mail delivered", "recipient", args[0])
	},
}
