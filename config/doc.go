// Package config loads asreval configuration with Viper.
//
// Values come from a YAML file (config.yml or asreval.yml in the working
// directory, or ~/.asreval/config.yml), then from a .env file, then from
// ASREVAL_-prefixed environment variables, later sources winning:
//
//	ASREVAL_STORAGE_BUCKET=asr-eval  ->  storage.bucket
package config
