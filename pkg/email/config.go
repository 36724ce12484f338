package email

// Config carries the settings for outbound mail delivery.
//
// The Postmark tokens stay optional so local environments can run without a
// Postmark account; SenderEmail and SupportEmail are always required because
// they define the From and Reply-To identity on every message regardless of
// which Sender implementation is in use.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}
