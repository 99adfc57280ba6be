// Package config loads the circulation desk configuration.
//
// Values are resolved from three layers in increasing order of precedence:
// built-in defaults, an optional YAML file (circdesk.yaml, or the path in
// CIRCDESK_CONFIG), and CIRCDESK_* environment variables. The package also
// owns the constructors for the three supported database connections
// (pgxpool, database/sql with lib/pq, and sqlx).
package config
