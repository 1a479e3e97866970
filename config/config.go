package config

import (
	"os"
	"strings"
)

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("ADMINAUTH_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("ADMINAUTH_DEBUG") == "true"
}

func GetListenAddr() string {
	addr := os.Getenv("ADMINAUTH_LISTEN_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	return addr
}

func GetDBPath() string {
	dbPath := os.Getenv("ADMINAUTH_DB_PATH")
	if dbPath == "" {
		dbPath = "adminauth.db"
	}
	return dbPath
}

func GetAccessSigningKey() string {
	return os.Getenv("ADMINAUTH_ACCESS_KEY")
}

func GetRefreshSigningKey() string {
	return os.Getenv("ADMINAUTH_REFRESH_KEY")
}

func GetBootstrapUsername() string {
	username := os.Getenv("ADMINAUTH_BOOTSTRAP_USER")
	if username == "" {
		username = "admin"
	}
	return username
}

func GetBootstrapPassword() string {
	return os.Getenv("ADMINAUTH_BOOTSTRAP_PASSWORD")
}

// GetAdminAllowlist returns the usernames eligible for the admin role.
// The bootstrap user is always included.
func GetAdminAllowlist() []string {
	raw := os.Getenv("ADMINAUTH_ADMIN_ALLOWLIST")
	names := []string{GetBootstrapUsername()}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
