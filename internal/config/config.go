// Package config backs the serve and loadgen subcommands' optional settings
// with github.com/spf13/viper, binding flags, environment variables (under
// the ROLLINGMEDIAN_ prefix), and sane defaults. The root two-argument
// command takes no configuration beyond its input/output paths, per the
// specification's command surface.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Serve holds the runtime settings for the `serve` subcommand.
type Serve struct {
	Port     int
	LogLevel string
	Tail     string
}

// Loadgen holds the runtime settings for the `loadgen` subcommand.
type Loadgen struct {
	VertexPoolSize int
	EventCount     int
	Burstiness     float64
	NoiseSeed      int64
	LogLevel       string
}

// BindServeFlags registers the serve subcommand's flags and returns a
// viper instance bound to them, environment variables, and defaults.
func BindServeFlags(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("rollingmedian")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.Flags().Int("port", 8080, "port for the metrics/health/debug HTTP server")
	cmd.Flags().String("log-level", "info", "zap log level: debug, info, warn, error")
	cmd.Flags().String("tail", "", "path to a file to tail as input; defaults to stdin")

	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("tail", cmd.Flags().Lookup("tail"))

	return v
}

// LoadServe reads the bound settings into a Serve.
func LoadServe(v *viper.Viper) Serve {
	return Serve{
		Port:     v.GetInt("port"),
		LogLevel: v.GetString("log-level"),
		Tail:     v.GetString("tail"),
	}
}

// BindLoadgenFlags registers the loadgen subcommand's flags and returns a
// bound viper instance.
func BindLoadgenFlags(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("rollingmedian")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.Flags().Int("vertices", 500, "size of the synthetic actor/target name pool")
	cmd.Flags().Int("events", 100000, "number of synthetic events to generate")
	cmd.Flags().Float64("burstiness", 0.35, "0-1 noise-modulated bias toward reusing recent actors")
	cmd.Flags().Int64("seed", 1, "opensimplex noise seed")
	cmd.Flags().String("log-level", "info", "zap log level: debug, info, warn, error")

	_ = v.BindPFlag("vertices", cmd.Flags().Lookup("vertices"))
	_ = v.BindPFlag("events", cmd.Flags().Lookup("events"))
	_ = v.BindPFlag("burstiness", cmd.Flags().Lookup("burstiness"))
	_ = v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	_ = v.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))

	return v
}

// LoadLoadgen reads the bound settings into a Loadgen.
func LoadLoadgen(v *viper.Viper) Loadgen {
	return Loadgen{
		VertexPoolSize: v.GetInt("vertices"),
		EventCount:     v.GetInt("events"),
		Burstiness:     v.GetFloat64("burstiness"),
		NoiseSeed:      v.GetInt64("seed"),
		LogLevel:       v.GetString("log-level"),
	}
}
