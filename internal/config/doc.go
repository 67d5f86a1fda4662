// Package config loads the darkmonitor configuration file (config.yml).
//
// The file is YAML with three required sections:
//
//	tor:
//	  enabled: true
//	  port: 9050
//	  control_port: 9051
//	network:
//	  user_agent: "Mozilla/5.0 (Windows NT 10.0; rv:128.0) Gecko/20100101 Firefox/128.0"
//	  max_retries: 3
//	  timeout: 30
//	safety:
//	  request_delay: 5
//
// Durations are given in seconds and may be fractional.
package config
