package main

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	CredentialsFile string
	Project         string

	// Imagery selection. The defaults match the sample season the service was
	// tuned for; override per deployment.
	Collection  string
	DateStart   string
	DateEnd     string
	MaxCloudPct float64
}

func mustConfig() Config {
	cfg := Config{
		Port:            getenv("PORT", "5000"),
		CredentialsFile: getenv("GEE_CREDENTIALS_FILE", "./credentials.json"),
		Project:         getenv("GEE_PROJECT", "earthengine-legacy"),
		Collection:      getenv("GEE_COLLECTION", "COPERNICUS/S2_HARMONIZED"),
		DateStart:       getenv("GEE_DATE_START", "2023-06-01"),
		DateEnd:         getenv("GEE_DATE_END", "2023-08-31"),
		MaxCloudPct:     getenvFloat("GEE_MAX_CLOUD_PCT", 20),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
