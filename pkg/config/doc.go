// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 to
// deliver a small API that:
//
//   - Loads values from one or multiple .env files (falling back to the
//     default .env in the working directory).
//   - Parses the environment into any Go struct using `env` field tags.
//   - Caches each successfully loaded configuration type so it is parsed
//     once per process.
//   - Exposes panic-on-failure variants (MustLoadEnv, MustLoad) for
//     configuration the application cannot start without.
//   - Allows explicit cache reset or forced reload, which tests need when
//     they mutate the environment between cases.
//
// # Usage
//
// Describe the configuration as a struct with `env` tags:
//
//	type DatabaseConfig struct {
//	    Host string `env:"DB_HOST,required"`
//	    Port int    `env:"DB_PORT" envDefault:"5432"`
//	}
//
// Optionally load extra .env files, then populate the struct:
//
//	import "github.com/dmitrymomot/authkit/pkg/config"
//
//	func main() {
//	    if err := config.LoadEnv("./config/.env"); err != nil {
//	        log.Fatalf("loading env: %v", err)
//	    }
//
//	    var db DatabaseConfig
//	    if err := config.Load(&db); err != nil {
//	        log.Fatalf("parsing env: %v", err)
//	    }
//	}
//
// Values already present in the process environment always win over .env
// file values, so deployment platforms can override local files.
//
// # Error Handling
//
// Sentinel errors compare with errors.Is: ErrParsingConfig, ErrLoadingEnv,
// ErrConfigNotLoaded and ErrNilPointer.
//
// # Testing Helpers
//
// ResetCache clears the global cache between tests; ForceReloadConfig
// re-parses one struct after the environment changed.
package config
