package constants

const (
	DefaultMySQLPort      = 3306
	DefaultPostgreSQLPort = 5432
)
