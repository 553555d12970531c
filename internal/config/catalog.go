package config

type Catalog struct {
	PageSize int `env:"CATALOG_IMPORT_PAGE_SIZE" envDefault:"10"`
	MaxPages int `env:"CATALOG_IMPORT_MAX_PAGES" envDefault:"1"`
}
