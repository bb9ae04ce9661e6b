package config

const (
	// AppName is the name of the application.
	AppName = "warden"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvStoreDriver is the environment variable selecting the store, "mongo" or "sqlite".
	EnvStoreDriver = `STORE_DRIVER`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvSqliteDsn is the environment variable for the SQLite data source.
	EnvSqliteDsn = `SQLITE_DSN`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvCloseGrace is the environment variable for the seconds between closing a ticket and deleting its channel.
	EnvCloseGrace = `TICKET_CLOSE_GRACE_SECONDS`

	// EnvTransferTimeout is the environment variable for the seconds a transfer selection stays valid.
	EnvTransferTimeout = `TICKET_TRANSFER_TIMEOUT_SECONDS`

	// EnvCreateCooldown is the environment variable for the seconds between two tickets of a user.
	EnvCreateCooldown = `TICKET_CREATE_COOLDOWN_SECONDS`

	// EnvTranscriptLimit is the environment variable for the maximum number of messages in a transcript.
	EnvTranscriptLimit = `TICKET_TRANSCRIPT_LIMIT`
)

const (
	// DriverMongo stores data in MongoDB.
	DriverMongo = "mongo"

	// DriverSqlite stores data in SQLite.
	DriverSqlite = "sqlite"
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// StoreDriver is the store the bot uses.
	StoreDriver = DriverMongo

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// SqliteDsn is the data source for the SQLite database.
	SqliteDsn = "warden.db"

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort = "8080"

	// CloseGraceSeconds is the delay before a closed ticket channel is deleted.
	CloseGraceSeconds = 5

	// TransferTimeoutSeconds is how long a transfer selection stays valid.
	TransferTimeoutSeconds = 60

	// CreateCooldownSeconds is the minimum time between two tickets of a user.
	CreateCooldownSeconds = 30

	// TranscriptLimit is the maximum number of messages in a transcript.
	TranscriptLimit = 500
)
