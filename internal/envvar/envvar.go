package envvar

const (
	// ModelstoreEnv is the environment variable used to determine the environment
	ModelstoreEnv = "MODELSTORE_ENV"

	// ModelstoreConfigPath is the environment variable used to override the config file path
	ModelstoreConfigPath = "MODELSTORE_CONFIG_PATH"

	// ModelstoreGRPCPort is the environment variable used to determine the gRPC health port
	ModelstoreGRPCPort = "MODELSTORE_GRPC_PORT"

	// ModelstoreLogFile is the environment variable used to override the log file path
	ModelstoreLogFile = "MODELSTORE_LOG_FILE"
)
