package db

import (
	"database/sql"
	"log"
	"sync"

	"github.com/go-sql-driver/mysql"

	"github.com/aptgo/registry-go/config"
)

var dataDb *sql.DB
var dataDBOnce = &sync.Once{}

func GetDataDBConnection(conf *config.Config) *sql.DB {
	dataDBOnce.Do(func() {
		cfg := mysql.Config{
			User:      conf.DBUser,
			Passwd:    conf.DBPass,
			Net:       "tcp",
			Addr:      conf.DBAddr,
			DBName:    conf.DBName,
			ParseTime: true,
		}
		// Get a database handle.
		var err error
		dataDb, err = sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			log.Fatal(err)
		}

		pingErr := dataDb.Ping()
		if pingErr != nil {
			log.Fatal(pingErr)
		}
	})

	return dataDb
}
