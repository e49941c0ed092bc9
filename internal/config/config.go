package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string // "dev" | "prod"
	LogLevel string

	// DB
	DBPath string // e.g. "./data/parkgate.db"

	// Serial device
	SerialPort string // empty = auto-detect
	BaudRate   int

	// Checkpoint policy
	LaneID             string
	EntryCooldown      time.Duration
	GateOpenTime       time.Duration
	ExitGraceWindow    time.Duration
	SuppressionWindow  time.Duration
	MinDistanceCm      float64
	MaxDistanceCm      float64
	ConsensusThreshold int

	// Tariff & handshake
	HourlyRate     int64 // RWF per started hour
	ReadyTimeout   time.Duration
	ConfirmTimeout time.Duration

	// Evidence images
	ImageDir string
}

func FromEnv() Config {
	env := strings.ToLower(getenvDefault("PARKGATE_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	return Config{
		Env:      env,
		LogLevel: getenvDefault("PARKGATE_LOG_LEVEL", "info"),

		DBPath: getenvDefault("PARKGATE_DB_PATH", "./data/parkgate.db"),

		SerialPort: os.Getenv("PARKGATE_SERIAL_PORT"),
		BaudRate:   getenvInt("PARKGATE_BAUD_RATE", 9600),

		LaneID:             getenvDefault("PARKGATE_LANE_ID", "lane-1"),
		EntryCooldown:      getenvSeconds("PARKGATE_ENTRY_COOLDOWN_S", 300),
		GateOpenTime:       getenvSeconds("PARKGATE_GATE_OPEN_S", 15),
		ExitGraceWindow:    getenvSeconds("PARKGATE_EXIT_GRACE_S", 300),
		SuppressionWindow:  getenvSeconds("PARKGATE_SUPPRESSION_S", 300),
		MinDistanceCm:      getenvFloat("PARKGATE_MIN_DISTANCE_CM", 0),
		MaxDistanceCm:      getenvFloat("PARKGATE_MAX_DISTANCE_CM", 50),
		ConsensusThreshold: getenvInt("PARKGATE_CONSENSUS_THRESHOLD", 3),

		HourlyRate:     int64(getenvInt("PARKGATE_HOURLY_RATE", 500)),
		ReadyTimeout:   getenvSeconds("PARKGATE_READY_TIMEOUT_S", 5),
		ConfirmTimeout: getenvSeconds("PARKGATE_CONFIRM_TIMEOUT_S", 10),

		ImageDir: getenvDefault("PARKGATE_IMAGE_DIR", "./data/images"),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvSeconds(key string, def int) time.Duration {
	return time.Duration(getenvInt(key, def)) * time.Second
}

func getenvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}
