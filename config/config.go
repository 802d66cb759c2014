package config

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/police-fir-api/logging"
	"github.com/linesmerrill/police-fir-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string `env:"DB_URI" env-default:"mongodb://127.0.0.1:27017"`
	DatabaseName string `env:"DB_NAME" env-default:"fir"`
	BaseURL      string `env:"BASE_URL"`
	Port         string `env:"PORT" env-default:"8080"`
	AppEnv       string `env:"APP_ENV" env-default:"production"`
	StoreDriver  string `env:"STORE_DRIVER" env-default:"mongo"`

	TimeZone          string `env:"FIR_TIMEZONE" env-default:"UTC"`
	NumberPrefix      string `env:"FIR_NUMBER_PREFIX" env-default:"FIR"`
	NumberRetries     int    `env:"FIR_NUMBER_RETRIES" env-default:"5"`
	StrictTransitions bool   `env:"FIR_STRICT_TRANSITIONS" env-default:"false"`
	AuditAssignments  bool   `env:"FIR_AUDIT_ASSIGNMENTS" env-default:"false"`

	QueryTimeout          time.Duration `env:"QUERY_TIMEOUT" env-default:"10s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	StatsSnapshotSchedule string        `env:"STATS_SNAPSHOT_SCHEDULE" env-default:"0 * * * *"`
}

// New sets up all config related services
func New() *Config {
	conf := &Config{}
	readErr := cleanenv.ReadEnv(conf)

	//setup zap logger and replace default logger
	logger, err := setLogger(conf.AppEnv)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	if readErr != nil {
		zap.S().Warnw("failed to read config from environment, using defaults", "error", readErr)
	}
	return conf
}

// Location is the reference time zone used to interpret calendar dates in
// filters. Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		zap.S().Warnw("unknown time zone, using UTC", "timeZone", c.TimeZone, "error", err)
		return time.UTC
	}
	return loc
}

func setLogger(env string) (*zap.Logger, error) {
	return logging.NewLogger(env)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With("error", err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
