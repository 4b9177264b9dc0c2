// Package config loads orderdesk settings from the environment.
//
// Every variable carries the ORDERDESK_ prefix:
//
//	ORDERDESK_DB_PATH              SQLite file (default ~/.orderdesk/orderdesk.db)
//	ORDERDESK_ORDER_NUMBER_PREFIX  prefix for generated order numbers
//	ORDERDESK_LOG_LEVEL            debug, info, warn, error (default info)
//	ORDERDESK_LOG_FORMAT           json or console (default json)
//	ORDERDESK_METRICS_ADDR         listen address for /metrics; empty disables
//	ORDERDESK_KAFKA_BROKERS        comma-separated brokers; empty disables Kafka
//
// A .env file is read first when present.
package config
