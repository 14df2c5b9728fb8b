// Package config loads process-wide configuration from REFSCORE_*
// environment variables with sensible defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the server needs at startup.
type Config struct {
	Port           string
	PreloadNLP     bool
	ServeDist      bool
	DistDir        string
	AllowedOrigins []string
	IdleTimeout    time.Duration
	GzipMinSize    int
	Debug          bool
}

// Load reads configuration from the environment. Every value has a
// default, so Load never fails.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("refscore")
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("preload_nlp", false)
	v.SetDefault("serve_dist", true)
	v.SetDefault("dist_dir", "dist")
	v.SetDefault("allowed_origins", strings.Join([]string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}, ","))
	v.SetDefault("idle_timeout", 30*time.Second)
	v.SetDefault("gzip_min_size", 1000)
	v.SetDefault("debug", false)

	return Config{
		Port:           v.GetString("port"),
		PreloadNLP:     v.GetBool("preload_nlp"),
		ServeDist:      v.GetBool("serve_dist"),
		DistDir:        v.GetString("dist_dir"),
		AllowedOrigins: splitOrigins(v.GetString("allowed_origins")),
		IdleTimeout:    v.GetDuration("idle_timeout"),
		GzipMinSize:    v.GetInt("gzip_min_size"),
		Debug:          v.GetBool("debug"),
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
