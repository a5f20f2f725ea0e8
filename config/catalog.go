package config

// CatalogConfig locates the file-backed collaborator data consumed and
// served by the gateway: the report catalog and the admin allow-list.
type CatalogConfig struct {
	// ReportsPath is the JSON report catalog read by the listing endpoint.
	ReportsPath string `env:"REPORTS_PATH" envDefault:"config/reports.json"`

	// AdminsPath is the JSON admin allow-list managed over the admin API.
	AdminsPath string `env:"ADMINS_PATH" envDefault:"config/admins.json"`
}
