package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"

	"mine_empire/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Deployment addresses
	DeployerAddress string
	TreasuryAddress string
	AdminAddresses  []string

	// Dev mode enables the native-currency faucet endpoint.
	DevMode bool

	// Economy parameters
	BaseProduction *big.Int // resource units per second per 1.00x power

	// Rate limits
	APIRateLimit     int
	APIRateWindow    int
	ActionRateLimit  int
	ActionRateWindow int
}

// Load reads configuration from the environment (.env honored).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	deployer := os.Getenv("DEPLOYER_ADDRESS")
	if deployer == "" {
		deployer = "0xdeployer"
	}

	treasury := os.Getenv("TREASURY_ADDRESS")
	if treasury == "" {
		logger.Fatal("TREASURY_ADDRESS is not set")
	}

	var admins []string
	if v := os.Getenv("ADMIN_ADDRESSES"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				admins = append(admins, a)
			}
		}
	}

	// 1e16 per second per 1.00x mining power unless overridden
	base, _ := new(big.Int).SetString("10000000000000000", 10)
	if v := os.Getenv("BASE_PRODUCTION"); v != "" {
		if n, ok := new(big.Int).SetString(v, 10); ok && n.Sign() > 0 {
			base = n
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:          port,
		DatabaseURL:      dbURL,
		JWTSecret:        jwtSecret,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		DeployerAddress:  deployer,
		TreasuryAddress:  treasury,
		AdminAddresses:   admins,
		DevMode:          os.Getenv("DEV_MODE") == "true",
		BaseProduction:   base,
		APIRateLimit:     envInt("API_RATE_LIMIT", 30),
		APIRateWindow:    envInt("API_RATE_WINDOW_SECONDS", 60),
		ActionRateLimit:  envInt("ACTION_RATE_LIMIT", 60),
		ActionRateWindow: envInt("ACTION_RATE_WINDOW_SECONDS", 60),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
