// Package config loads feed configuration.
//
// It uses Viper to read a YAML file and environment variables, with .env
// files loaded through godotenv. Only variables carrying the configured
// prefix (ITEMFEED_ by default) are bound; the prefix is stripped and the
// rest is mapped onto nested keys, so ITEMFEED_LINE_ENDING sets line_ending
// and ITEMFEED_LOGGING_LEVEL sets logging.level.
//
// # Usage
//
//	var cfg config.FeedConfig
//	if err := config.LoadConfig("itemfeed", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
