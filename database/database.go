package database

import (
	"fmt"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/40acres/lnswapd/database/models"
)

// EmbeddedHost selects an embedded postgres instance instead of an external
// server.
const EmbeddedHost = "embedded"

type Database struct {
	host      string
	username  string
	password  string
	database  string
	port      uint32
	dataPath  string
	keepAlive bool
	embedded  *embeddedpostgres.EmbeddedPostgres
	orm       *gorm.DB
}

// NewDatabase connects to postgres, starting an embedded instance when host
// is "embedded" (or empty). The returned close function stops the embedded
// instance unless keepAlive is set.
func NewDatabase(username, password, database string, port uint32, dataPath, host string, keepAlive bool) (*Database, func() error, error) {
	if host == "" {
		host = EmbeddedHost
	}

	db := &Database{
		host:      host,
		username:  username,
		password:  password,
		database:  database,
		port:      port,
		dataPath:  dataPath,
		keepAlive: keepAlive,
	}

	if db.host == EmbeddedHost {
		if err := db.startEmbedded(); err != nil {
			return nil, nil, err
		}
	}

	models.RegisterSerializers()

	orm, err := gorm.Open(postgres.Open(db.GetConnectionURL()), &gorm.Config{})
	if err != nil {
		if db.embedded != nil {
			if stopErr := db.embedded.Stop(); stopErr != nil {
				log.WithError(stopErr).Error("failed to stop embedded postgres")
			}
		}

		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.orm = orm

	return db, db.close, nil
}

func (d *Database) startEmbedded() error {
	config := embeddedpostgres.DefaultConfig().
		Username(d.username).
		Password(d.password).
		Database(d.database).
		Port(d.port)
	if d.dataPath != "" {
		config = config.DataPath(d.dataPath)
	}

	d.embedded = embeddedpostgres.NewDatabase(config)
	if err := d.embedded.Start(); err != nil {
		return fmt.Errorf("failed to start embedded postgres: %w", err)
	}

	return nil
}

func (d *Database) close() error {
	if d.embedded == nil || d.keepAlive {
		return nil
	}

	return d.embedded.Stop()
}

// GetConnectionURL builds the postgres connection string. Embedded
// instances always listen on localhost.
func (d *Database) GetConnectionURL() string {
	host := d.host
	if host == EmbeddedHost {
		host = "localhost"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.username, d.password, host, d.port, d.database)
}

func (d *Database) ORM() *gorm.DB {
	return d.orm
}

// MigrateDatabase creates the enum types and migrates the swap schema.
func (d *Database) MigrateDatabase() error {
	enums := []struct {
		name      string
		createSQL string
	}{
		{"swap_status", models.CreateSwapStatusEnumSQL()},
		{"swap_outcome", models.CreateSwapOutcomeEnumSQL()},
	}
	for _, enum := range enums {
		var count int64
		if err := d.orm.Raw("SELECT count(*) FROM pg_type WHERE typname = ?", enum.name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check enum %s: %w", enum.name, err)
		}
		if count == 0 {
			if err := d.orm.Exec(enum.createSQL).Error; err != nil {
				return fmt.Errorf("failed to create enum %s: %w", enum.name, err)
			}
		}
	}

	if err := d.orm.AutoMigrate(&models.SwapOrder{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	return nil
}
