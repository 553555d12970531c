package config

import "time"

// Shopify holds the credentials used to reach the Admin GraphQL API.
type Shopify struct {
	ShopDomain  string        `env:"SHOPIFY_SHOP_DOMAIN,required,notEmpty"`
	AccessToken string        `env:"SHOPIFY_ACCESS_TOKEN,required,notEmpty"`
	APIVersion  string        `env:"SHOPIFY_API_VERSION" envDefault:"2024-10"`
	APIKey      string        `env:"SHOPIFY_API_KEY"`
	APISecret   string        `env:"SHOPIFY_API_SECRET"`
	Timeout     time.Duration `env:"SHOPIFY_TIMEOUT" envDefault:"30s"`

	// BaseURL overrides https://{shop} and is only meant for tests and proxies.
	BaseURL string `env:"SHOPIFY_BASE_URL"`
}
