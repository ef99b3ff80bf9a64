// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/movecodec/exchange"
)

const (
	versionKey          = "version"
	httpHostKey         = "http-host"
	httpPortKey         = "http-port"
	logLevelKey         = "log-level"
	cacheSizeKey        = "cache-size"
	metricsNamespaceKey = "metrics-namespace"

	envPrefix = "movecodec"
)

// Config is the daemon configuration.
type Config struct {
	Version  bool
	HTTPHost string
	HTTPPort uint16
	LogLevel string
	Exchange exchange.Config
}

// Addr is the address the HTTP server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(envPrefix, flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quit")
	fs.String(httpHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint(httpPortKey, 9650, "Port of the HTTP server")
	fs.String(logLevelKey, "info", "The log level")
	fs.Int(cacheSizeKey, exchange.DefaultConfig.CacheSize, "Number of identifier mappings kept in memory")
	fs.String(metricsNamespaceKey, exchange.DefaultConfig.Namespace, "Namespace of the exchange metrics")

	return fs
}

// getViper returns the viper environment for the daemon
func getViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

func getConfig() (Config, error) {
	v, err := getViper()
	if err != nil {
		return Config{}, err
	}

	port := v.GetUint(httpPortKey)
	if port > 1<<16-1 {
		return Config{}, fmt.Errorf("%s %d is out of range", httpPortKey, port)
	}
	config := Config{
		Version:  v.GetBool(versionKey),
		HTTPHost: v.GetString(httpHostKey),
		HTTPPort: uint16(port),
		LogLevel: v.GetString(logLevelKey),
		Exchange: exchange.Config{
			CacheSize: v.GetInt(cacheSizeKey),
			Namespace: v.GetString(metricsNamespaceKey),
		},
	}
	return config, config.Exchange.Verify()
}
