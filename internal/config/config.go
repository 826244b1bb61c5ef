package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	Webpay Webpay `envPrefix:"WEBPAY_"`
}

type Webpay struct {
	// Integration host by default; production is https://webpay3g.transbank.cl
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://webpay3gint.transbank.cl"`
	CommerceCode string `env:"COMMERCE_CODE"`
	APIKey       string `env:"API_KEY"`
	// Where the gateway redirects the buyer after the payment form.
	ReturnURL string `env:"RETURN_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// When set, logs are mirrored to this file with rotation.
	File string `env:"LOG_FILE"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
