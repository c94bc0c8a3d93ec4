package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func createValidConfig() *MySQL {
	return &MySQL{
		Host:     "example.com",
		Port:     3306,
		Username: "username",
		Password: "password",
		Database: "database",
	}
}

func TestMySQL_Validate(t *testing.T) {
	{
		// config is empty
		var c *MySQL
		assert.ErrorContains(t, c.Validate(), "MySQL config is nil")
	}
	{
		// happy path
		assert.NoError(t, createValidConfig().Validate())
	}
	{
		// empty host
		c := createValidConfig()
		c.Host = ""
		assert.ErrorContains(t, c.Validate(), "one of the MySQL settings is empty: host, username, password, database")
	}
	{
		// empty user
		c := createValidConfig()
		c.Username = ""
		assert.ErrorContains(t, c.Validate(), "one of the MySQL settings is empty: host, username, password, database")
	}
	{
		// empty password
		c := createValidConfig()
		c.Password = ""
		assert.ErrorContains(t, c.Validate(), "one of the MySQL settings is empty: host, username, password, database")
	}
	{
		// empty database
		c := createValidConfig()
		c.Database = ""
		assert.ErrorContains(t, c.Validate(), "one of the MySQL settings is empty: host, username, password, database")
	}
	{
		// bad port - negative
		c := createValidConfig()
		c.Port = -2
		assert.ErrorContains(t, c.Validate(), "port is not set or <= 0")
	}
	{
		// bad port - 0
		c := createValidConfig()
		c.Port = 0
		assert.ErrorContains(t, c.Validate(), "port is not set or <= 0")
	}
	{
		// bad port - too large
		c := createValidConfig()
		c.Port = 65_536
		assert.ErrorContains(t, c.Validate(), "port is > 65535")
	}
}

func TestMySQL_ToDSN(t *testing.T) {
	{
		c := createValidConfig()
		assert.Equal(t, "username:password@tcp(example.com:3306)/database?parseTime=true", c.ToDSN())
	}
	{
		// Client side interpolation
		c := createValidConfig()
		c.InterpolateParams = true
		assert.Equal(t, "username:password@tcp(example.com:3306)/database?interpolateParams=true&parseTime=true", c.ToDSN())
	}
}
