package utils

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials are the database connection settings read from an env file.
type Credentials struct {
	User     string
	Password string
	Host     string
	HostAddr string // optional; set to a specific IP (e.g. IPv6) to force it
	Port     string
	DBName   string
}

// LoadCredentials reads credentials from an env-format file. Port and dbname
// fall back to the PostgreSQL defaults when unset.
func LoadCredentials(path string) (*Credentials, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %v", path, err)
	}

	creds := &Credentials{
		User:     env["user"],
		Password: env["password"],
		Host:     env["host"],
		HostAddr: env["hostaddr"],
		Port:     env["port"],
		DBName:   env["dbname"],
	}
	if creds.Port == "" {
		creds.Port = "5432"
	}
	if creds.DBName == "" {
		creds.DBName = "postgres"
	}

	return creds, nil
}

// DSN renders the credentials as a libpq key=value connection string with
// sslmode=require. When HostAddr is set it replaces Host for dialing; require
// performs no hostname verification, so the certificate still passes.
func (c *Credentials) DSN() string {
	host := c.Host
	if c.HostAddr != "" {
		host = c.HostAddr
	}

	pairs := []string{
		"user=" + quoteDSNValue(c.User),
		"password=" + quoteDSNValue(c.Password),
		"host=" + quoteDSNValue(host),
		"port=" + quoteDSNValue(c.Port),
		"dbname=" + quoteDSNValue(c.DBName),
		"sslmode=require",
	}
	return strings.Join(pairs, " ")
}

// quoteDSNValue quotes a libpq connection parameter value. Empty values and
// values containing spaces, quotes, or backslashes must be single-quoted.
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
