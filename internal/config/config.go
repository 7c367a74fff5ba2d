// Package config reads worker and CLI settings from the environment (and an optional .env
// file) and validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultWorkerCount       = 3
	DefaultResumeConcurrency = 4
	DefaultMaxUploadMB       = 10
)

type R2 struct {
	AccountID string `env:"R2_ACCCOUNT_ID" validate:"required"`
	Bucket    string `env:"R2_BUCKET" validate:"required"`
	AccessKey string `env:"R2_ACCESS_KEY" validate:"required"`
	SecretKey string `env:"R2_SECRET_KEY" validate:"required"`
}

// Extraction holds the settings shared by the worker and the resumeparse CLI.
type Extraction struct {
	SkillsFile    string `env:"SKILLS_FILE" validate:"omitempty,file"`
	PdftotextPath string `env:"PDFTOTEXT_PATH"`
	MaxUploadMB   int    `env:"MAX_UPLOAD_MB" validate:"min=1,max=100"`
}

type Config struct {
	DBURL       string `env:"DB_URL" validate:"required"`
	RabbitMQURL string `env:"RABBITMQ_URL" validate:"required,url"`
	R2          R2
	// GoogleAPIKey is optional. Without it the worker skips AI feedback.
	GoogleAPIKey      string `env:"GOOGLE_API_KEY"`
	WorkerCount       int    `env:"WORKER_COUNT" validate:"min=1,max=64"`
	ResumeConcurrency int    `env:"RESUME_CONCURRENCY" validate:"min=1,max=32"`
	Extraction        Extraction
}

// Load reads the full worker configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	extraction, err := readExtraction()
	if err != nil {
		return nil, err
	}
	workers, err := intEnv("WORKER_COUNT", DefaultWorkerCount)
	if err != nil {
		return nil, err
	}
	concurrency, err := intEnv("RESUME_CONCURRENCY", DefaultResumeConcurrency)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBURL:       os.Getenv("DB_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		R2: R2{
			AccountID: os.Getenv("R2_ACCCOUNT_ID"),
			Bucket:    os.Getenv("R2_BUCKET"),
			AccessKey: os.Getenv("R2_ACCESS_KEY"),
			SecretKey: os.Getenv("R2_SECRET_KEY"),
		},
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		WorkerCount:       workers,
		ResumeConcurrency: concurrency,
		Extraction:        extraction,
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadExtraction reads only the extraction settings. The CLI needs no broker or storage.
func LoadExtraction() (Extraction, error) {
	_ = godotenv.Load()

	extraction, err := readExtraction()
	if err != nil {
		return Extraction{}, err
	}
	if err := validate(&extraction); err != nil {
		return Extraction{}, err
	}
	return extraction, nil
}

func readExtraction() (Extraction, error) {
	maxMB, err := intEnv("MAX_UPLOAD_MB", DefaultMaxUploadMB)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{
		SkillsFile:    os.Getenv("SKILLS_FILE"),
		PdftotextPath: os.Getenv("PDFTOTEXT_PATH"),
		MaxUploadMB:   maxMB,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s in environment: %w", key, err)
	}
	return n, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validate reports every failing field by its environment variable name.
func validate(v any) error {
	err := newValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			errs = append(errs, fmt.Errorf("empty %s in environment", fe.Field()))
			continue
		}
		errs = append(errs, fmt.Errorf("invalid %s in environment: failed %q check", fe.Field(), fe.Tag()))
	}
	return errors.Join(errs...)
}

// MaxUploadBytes converts the megabyte limit to bytes.
func (e Extraction) MaxUploadBytes() int64 {
	return int64(e.MaxUploadMB) * 1024 * 1024
}
