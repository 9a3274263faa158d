package store

// Config controls where the metadata store persists its SQLite file.
type Config struct {
	DBPath string `env:"STORE_DB_PATH" envDefault:"data/store.db"`
}
