package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Dashboard API
	Addr      string
	DataPath  string
	UploadDir string

	// Remote master workbook (cmd/fetchdata)
	DataURL string

	// Report drop-box
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		Addr:      getenv("DASHBOARD_ADDR", ":8080"),
		DataPath:  getenv("DATA_PATH", "data/MAC_ICCO_Programs_Database_2025.xlsx"),
		UploadDir: getenv("UPLOAD_DIR", "data/uploads"),

		DataURL: os.Getenv("DATA_URL"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/reports"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
