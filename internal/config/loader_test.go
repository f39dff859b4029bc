package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/areacheck/internal/adapters/repository"
	"github.com/okian/areacheck/internal/config"
	"github.com/okian/areacheck/internal/domain/area"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Variant, convey.ShouldEqual, area.VariantQuarterDisk)
			convey.So(cfg.HistoryBackend, convey.ShouldEqual, repository.BackendFile)
			convey.So(cfg.HistoryPath, convey.ShouldEqual, "sessions")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.HistoryBackend, convey.ShouldEqual, repository.BackendFile)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("AREACHECK_ADDR", ":8080")
			_ = os.Setenv("AREACHECK_VARIANT", "triangle")
			_ = os.Setenv("AREACHECK_HISTORY_BACKEND", "sqlite")
			_ = os.Setenv("AREACHECK_HISTORY_PATH", "/tmp/areacheck.db")
			_ = os.Setenv("AREACHECK_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Variant, convey.ShouldEqual, area.VariantTriangle)
				convey.So(cfg.HistoryBackend, convey.ShouldEqual, repository.BackendSQLite)
				convey.So(cfg.HistoryPath, convey.ShouldEqual, "/tmp/areacheck.db")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When r_allowed is given as a comma separated env var", func() {
			_ = os.Setenv("AREACHECK_R_ALLOWED", "1, 1.5 ,2")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it is split into a list", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RAllowed, convey.ShouldResemble, []string{"1", "1.5", "2"})
				v, verr := cfg.AreaVariant()
				convey.So(verr, convey.ShouldBeNil)
				convey.So(v.Bounds.R.Allowed, convey.ShouldHaveLength, 3)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
variant: triangle
history_backend: badger
history_path: ./data/badger
x_min: -3
x_max: 3
r_allowed: [1, 2, 3]
`)
			_ = os.Setenv("AREACHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.HistoryBackend, convey.ShouldEqual, repository.BackendBadger)
				convey.So(cfg.XMin, convey.ShouldEqual, "-3")
				convey.So(cfg.RAllowed, convey.ShouldResemble, []string{"1", "2", "3"})
			})

			convey.Convey("And the overrides reach the variant", func() {
				v, verr := cfg.AreaVariant()
				convey.So(verr, convey.ShouldBeNil)
				_, rejected := v.Validator().Validate(area.RawInput{X: "-3", Y: "1", R: "1"})
				convey.So(rejected, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
variant: triangle
`)
			_ = os.Setenv("AREACHECK_CONFIG", tmpFile)
			_ = os.Setenv("AREACHECK_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Variant, convey.ShouldEqual, area.VariantTriangle)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("AREACHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("AREACHECK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("AREACHECK_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the variant is unknown", func() {
			_ = os.Setenv("AREACHECK_VARIANT", "hexagon")

			_, err := config.Load(ctx)

			convey.Convey("Then both the config and area kinds are reported", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, area.ErrUnknownVariant), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the history backend is unknown", func() {
			_ = os.Setenv("AREACHECK_HISTORY_BACKEND", "redis")

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "unknown history_backend")
		})

		convey.Convey("When a persistent backend has no path", func() {
			_ = os.Setenv("AREACHECK_HISTORY_PATH", "")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the memory backend has no path", func() {
			_ = os.Setenv("AREACHECK_HISTORY_BACKEND", "memory")
			_ = os.Setenv("AREACHECK_HISTORY_PATH", "")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HistoryBackend, convey.ShouldEqual, repository.BackendMemory)
		})

		convey.Convey("When bound overrides are inconsistent", func() {
			_ = os.Setenv("AREACHECK_X_MIN", "5")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, area.ErrInvalidBounds), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"AREACHECK_CONFIG",
		"AREACHECK_ADDR",
		"AREACHECK_LOG_LEVEL",
		"AREACHECK_LOG_FORMAT",
		"AREACHECK_VARIANT",
		"AREACHECK_HISTORY_BACKEND",
		"AREACHECK_HISTORY_PATH",
		"AREACHECK_X_MIN",
		"AREACHECK_R_ALLOWED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp(t.TempDir(), "areacheck-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
