package mailer

// Driver names a mail backend.
type Driver string

const (
	DriverPostmark Driver = "postmark"
	DriverSMTP     Driver = "smtp"
	DriverDev      Driver = "dev"
)

// Config holds mail delivery configuration. SenderEmail establishes the
// From identity for all outbound mail; the remaining fields matter only to
// the selected driver.
type Config struct {
	Driver      Driver `env:"MAILER_DRIVER" envDefault:"dev"`
	SenderEmail string `env:"MAILER_SENDER_EMAIL" envDefault:"no-reply@localhost.localdomain"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// DevDir is where the dev driver writes outbound messages.
	DevDir string `env:"MAILER_DEV_DIR" envDefault:"./tmp/mail"`
}
