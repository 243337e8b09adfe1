package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Ticket  TicketConfig
	Printer PrinterConfig
	Ledger  LedgerConfig
	Menu    MenuConfig
}

type ServerConfig struct {
	Port      string
	RateLimit string
}

type TicketConfig struct {
	RestaurantName string
	CurrencySymbol string
}

type PrinterConfig struct {
	// Mode selects the transport: "device" streams to a raw device node,
	// "serial" opens a serial port.
	Mode        string
	Device      string
	Baud        int
	Timeout     time.Duration
	SettleDelay time.Duration
}

type LedgerConfig struct {
	DataDir string
}

type MenuConfig struct {
	File string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	baud, _ := strconv.Atoi(getEnv("PRINTER_BAUD", "9600"))
	timeoutSec, _ := strconv.Atoi(getEnv("PRINTER_TIMEOUT_SECONDS", "10"))
	settleMs, _ := strconv.Atoi(getEnv("PRINTER_SETTLE_MS", "1000"))

	return Config{
		Server: ServerConfig{
			Port:      getEnv("SERVER_PORT", "5000"),
			RateLimit: getEnv("RATE_LIMIT", "60-M"),
		},
		Ticket: TicketConfig{
			RestaurantName: getEnv("RESTAURANT_NAME", "SUSHAKI RESTAURANT"),
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),
		},
		Printer: PrinterConfig{
			Mode:        getEnv("PRINTER_MODE", "device"),
			Device:      getEnv("PRINTER_DEVICE", "/dev/usb/lp0"),
			Baud:        baud,
			Timeout:     time.Duration(timeoutSec) * time.Second,
			SettleDelay: time.Duration(settleMs) * time.Millisecond,
		},
		Ledger: LedgerConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Menu: MenuConfig{
			File: getEnv("MENU_FILE", "data/menu.json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
