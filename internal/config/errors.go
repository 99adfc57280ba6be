package config

import (
	"errors"
)

var ErrReadingConfigFileFailed = errors.New("reading config file failed")
var ErrParsingConfigFileFailed = errors.New("parsing config file failed")
var ErrParsingMaxConnsFailed = errors.New("parsing max connections value failed")
var ErrNonPositiveMaxConns = errors.New("max connections must be at least 1")
var ErrUnsupportedAdapterType = errors.New("unsupported database adapter type")
var ErrUnsupportedLogLevel = errors.New("unsupported log level")
var ErrEmptyDSN = errors.New("database dsn must not be empty")
var ErrEmptyTextLogPath = errors.New("text log path must not be empty")
var ErrParsingDSNFailed = errors.New("parsing database dsn failed")
var ErrOpeningDatabaseFailed = errors.New("opening database connection failed")
