package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/env"
	"github.com/RowanDark/0xcrack/internal/scorer"
	"github.com/RowanDark/0xcrack/internal/topk"
	"github.com/RowanDark/0xcrack/internal/wordlist"
)

// ErrInvalid is returned when a resolved configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

const (
	// HomeDir is the per-user configuration directory under $HOME.
	HomeDir = ".0xcrack"
	// HomeFile is the configuration file inside HomeDir.
	HomeFile = "config.yml"
	// LocalFile is read from the working directory.
	LocalFile = "0xcrack.yml"
)

// Config captures the 0xcrack configuration resolved from defaults, optional
// files and environment overrides.
type Config struct {
	TopK          int           `yaml:"top_k" validate:"min=1,max=1000"`
	Workers       int           `yaml:"workers" validate:"min=0,max=1024"`
	PreviewLength int           `yaml:"preview_length" validate:"min=1,max=4096"`
	Search        SearchConfig  `yaml:"search"`
	Scoring       ScoringConfig `yaml:"scoring"`
	HistoryPath   string        `yaml:"history_path"`
	Server        ServerConfig  `yaml:"server"`
	Log           LogConfig     `yaml:"log"`
}

// SearchConfig bounds the key spaces of the bounded families.
type SearchConfig struct {
	MaxVigenereKey       int      `yaml:"max_vigenere_key" validate:"min=1,max=6"`
	MaxBeaufortKey       int      `yaml:"max_beaufort_key" validate:"min=1,max=6"`
	MaxHybridKey         int      `yaml:"max_hybrid_key" validate:"min=1,max=6"`
	MinRails             int      `yaml:"min_rails" validate:"min=2"`
	MaxRails             int      `yaml:"max_rails" validate:"gtefield=MinRails,max=64"`
	MinColumns           int      `yaml:"min_columns" validate:"min=2"`
	MaxColumns           int      `yaml:"max_columns" validate:"gtefield=MinColumns,max=26"`
	PlayfairKeys         []string `yaml:"playfair_keys" validate:"min=1,dive,required"`
	ColumnarPermutations bool     `yaml:"columnar_permutations"`
}

// ScoringConfig sets the scoring weights and reference data.
type ScoringConfig struct {
	LetterWeight   int    `yaml:"letter_weight" validate:"min=0"`
	WordWeight     int    `yaml:"word_weight" validate:"min=0"`
	ValidityWeight int    `yaml:"validity_weight" validate:"min=0"`
	WordListPath   string `yaml:"word_list_path"`
	Frequency      string `yaml:"frequency" validate:"omitempty,lowercase,alpha,max=26"`
}

// ServerConfig holds the listen addresses used by `0xcrack serve`.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" validate:"required,hostname_port"`
	GRPCAddr string `yaml:"grpc_addr" validate:"omitempty,hostname_port"`
	// AuthToken, when set, is required as a bearer token on API and gRPC
	// calls other than health checks and metrics.
	AuthToken string `yaml:"auth_token"`
}

// LogConfig controls structured and audit logging.
type LogConfig struct {
	Level     string `yaml:"level" validate:"oneof=debug info warn error"`
	Format    string `yaml:"format" validate:"oneof=text json"`
	AuditPath string `yaml:"audit_path"`
}

// Default returns the built-in 0xcrack configuration.
func Default() Config {
	b := crack.DefaultBounds()
	w := scorer.DefaultWeights()
	return Config{
		TopK:          topk.DefaultK,
		Workers:       0,
		PreviewLength: topk.DefaultPreviewLength,
		Search: SearchConfig{
			MaxVigenereKey:       b.MaxVigenereKey,
			MaxBeaufortKey:       b.MaxBeaufortKey,
			MaxHybridKey:         b.MaxHybridKey,
			MinRails:             b.MinRails,
			MaxRails:             b.MaxRails,
			MinColumns:           b.MinColumns,
			MaxColumns:           b.MaxColumns,
			PlayfairKeys:         b.PlayfairKeys,
			ColumnarPermutations: b.ColumnarPermutations,
		},
		Scoring: ScoringConfig{
			LetterWeight:   w.Letter,
			WordWeight:     w.Word,
			ValidityWeight: w.Validity,
			Frequency:      wordlist.Frequency,
		},
		HistoryPath: defaultHistoryPath(),
		Server: ServerConfig{
			HTTPAddr: "127.0.0.1:8713",
			GRPCAddr: "127.0.0.1:8714",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, HomeDir, "history.db")
}

// Load resolves the configuration using defaults, configuration files and
// environment overrides. Files are applied in this order, later ones winning:
//  1. ~/.0xcrack/config.yml
//  2. ./0xcrack.yml
//
// Environment variables prefixed with 0XCRACK_ (or the legacy CRACK_) have
// the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile resolves the configuration like Load but reads path in place of
// the home and local files.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	found, err := applyFile(&cfg, path)
	if err != nil {
		return Config{}, err
	}
	if !found {
		return Config{}, fmt.Errorf("read config %s: %w", path, fs.ErrNotExist)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	_, err = applyFile(cfg, filepath.Join(home, HomeDir, HomeFile))
	return err
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	_, err = applyFile(cfg, filepath.Join(wd, LocalFile))
	return err
}

// applyFile overlays the file at path onto cfg. A missing file is not an
// error.
func applyFile(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return true, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}

// fileConfig mirrors Config with pointer fields so a file only overrides the
// keys it sets.
type fileConfig struct {
	TopK          *int               `yaml:"top_k"`
	Workers       *int               `yaml:"workers"`
	PreviewLength *int               `yaml:"preview_length"`
	Search        *fileSearchConfig  `yaml:"search"`
	Scoring       *fileScoringConfig `yaml:"scoring"`
	HistoryPath   *string            `yaml:"history_path"`
	Server        *fileServerConfig  `yaml:"server"`
	Log           *fileLogConfig     `yaml:"log"`
}

type fileSearchConfig struct {
	MaxVigenereKey       *int     `yaml:"max_vigenere_key"`
	MaxBeaufortKey       *int     `yaml:"max_beaufort_key"`
	MaxHybridKey         *int     `yaml:"max_hybrid_key"`
	MinRails             *int     `yaml:"min_rails"`
	MaxRails             *int     `yaml:"max_rails"`
	MinColumns           *int     `yaml:"min_columns"`
	MaxColumns           *int     `yaml:"max_columns"`
	PlayfairKeys         []string `yaml:"playfair_keys"`
	ColumnarPermutations *bool    `yaml:"columnar_permutations"`
}

type fileScoringConfig struct {
	LetterWeight   *int    `yaml:"letter_weight"`
	WordWeight     *int    `yaml:"word_weight"`
	ValidityWeight *int    `yaml:"validity_weight"`
	WordListPath   *string `yaml:"word_list_path"`
	Frequency      *string `yaml:"frequency"`
}

type fileServerConfig struct {
	HTTPAddr  *string `yaml:"http_addr"`
	GRPCAddr  *string `yaml:"grpc_addr"`
	AuthToken *string `yaml:"auth_token"`
}

type fileLogConfig struct {
	Level     *string `yaml:"level"`
	Format    *string `yaml:"format"`
	AuditPath *string `yaml:"audit_path"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	setInt(&cfg.TopK, fc.TopK)
	setInt(&cfg.Workers, fc.Workers)
	setInt(&cfg.PreviewLength, fc.PreviewLength)
	setString(&cfg.HistoryPath, fc.HistoryPath)

	if s := fc.Search; s != nil {
		setInt(&cfg.Search.MaxVigenereKey, s.MaxVigenereKey)
		setInt(&cfg.Search.MaxBeaufortKey, s.MaxBeaufortKey)
		setInt(&cfg.Search.MaxHybridKey, s.MaxHybridKey)
		setInt(&cfg.Search.MinRails, s.MinRails)
		setInt(&cfg.Search.MaxRails, s.MaxRails)
		setInt(&cfg.Search.MinColumns, s.MinColumns)
		setInt(&cfg.Search.MaxColumns, s.MaxColumns)
		if s.PlayfairKeys != nil {
			cfg.Search.PlayfairKeys = append([]string(nil), s.PlayfairKeys...)
		}
		if s.ColumnarPermutations != nil {
			cfg.Search.ColumnarPermutations = *s.ColumnarPermutations
		}
	}
	if s := fc.Scoring; s != nil {
		setInt(&cfg.Scoring.LetterWeight, s.LetterWeight)
		setInt(&cfg.Scoring.WordWeight, s.WordWeight)
		setInt(&cfg.Scoring.ValidityWeight, s.ValidityWeight)
		setString(&cfg.Scoring.WordListPath, s.WordListPath)
		setString(&cfg.Scoring.Frequency, s.Frequency)
	}
	if s := fc.Server; s != nil {
		setString(&cfg.Server.HTTPAddr, s.HTTPAddr)
		setString(&cfg.Server.GRPCAddr, s.GRPCAddr)
		setString(&cfg.Server.AuthToken, s.AuthToken)
	}
	if l := fc.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.Format, l.Format)
		setString(&cfg.Log.AuditPath, l.AuditPath)
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"TOP_K", &cfg.TopK},
		{"WORKERS", &cfg.Workers},
		{"PREVIEW_LENGTH", &cfg.PreviewLength},
		{"MAX_VIGENERE_KEY", &cfg.Search.MaxVigenereKey},
		{"MAX_BEAUFORT_KEY", &cfg.Search.MaxBeaufortKey},
		{"MAX_HYBRID_KEY", &cfg.Search.MaxHybridKey},
		{"MAX_RAILS", &cfg.Search.MaxRails},
		{"MAX_COLUMNS", &cfg.Search.MaxColumns},
	}
	for _, o := range ints {
		val, ok := env.Get(o.name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, env.Prefix, o.name, val)
		}
		*o.dst = parsed
	}

	if val, ok := env.Get("COLUMNAR_PERMUTATIONS"); ok {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: %sCOLUMNAR_PERMUTATIONS=%q is not a boolean", ErrInvalid, env.Prefix, val)
		}
		cfg.Search.ColumnarPermutations = parsed
	}
	if val, ok := env.Get("PLAYFAIR_KEYS"); ok {
		var keys []string
		for _, k := range strings.Split(val, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		cfg.Search.PlayfairKeys = keys
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"WORD_LIST", &cfg.Scoring.WordListPath},
		{"HISTORY_PATH", &cfg.HistoryPath},
		{"HTTP_ADDR", &cfg.Server.HTTPAddr},
		{"GRPC_ADDR", &cfg.Server.GRPCAddr},
		{"AUTH_TOKEN", &cfg.Server.AuthToken},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"AUDIT_PATH", &cfg.Log.AuditPath},
	}
	for _, o := range strs {
		if val, ok := env.Get(o.name); ok {
			*o.dst = val
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints. Failures wrap
// ErrInvalid and name the offending yaml keys.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if err := c.Bounds().Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Bounds converts the search section to engine bounds.
func (c Config) Bounds() crack.Bounds {
	return crack.Bounds{
		MaxVigenereKey:       c.Search.MaxVigenereKey,
		MaxBeaufortKey:       c.Search.MaxBeaufortKey,
		MaxHybridKey:         c.Search.MaxHybridKey,
		MinRails:             c.Search.MinRails,
		MaxRails:             c.Search.MaxRails,
		MinColumns:           c.Search.MinColumns,
		MaxColumns:           c.Search.MaxColumns,
		PlayfairKeys:         append([]string(nil), c.Search.PlayfairKeys...),
		ColumnarPermutations: c.Search.ColumnarPermutations,
	}
}

// EngineConfig converts the configuration to a crack.Config. Zero workers
// means one per CPU.
func (c Config) EngineConfig() crack.Config {
	ec := crack.DefaultConfig()
	ec.TopK = c.TopK
	if c.Workers > 0 {
		ec.Workers = c.Workers
	}
	ec.PreviewLength = c.PreviewLength
	ec.Bounds = c.Bounds()
	return ec
}

// Weights returns the scoring weights.
func (c Config) Weights() scorer.Weights {
	return scorer.Weights{
		Letter:   c.Scoring.LetterWeight,
		Word:     c.Scoring.WordWeight,
		Validity: c.Scoring.ValidityWeight,
	}
}

// Scorer builds the scorer described by the scoring section, loading the
// word list from disk when a path is set.
func (c Config) Scorer() (*scorer.Scorer, error) {
	ref := wordlist.Default()
	if c.Scoring.WordListPath != "" || (c.Scoring.Frequency != "" && c.Scoring.Frequency != wordlist.Frequency) {
		var err error
		if c.Scoring.WordListPath != "" {
			ref, err = wordlist.Load(c.Scoring.WordListPath, c.Scoring.Frequency)
		} else {
			ref, err = wordlist.New(ref.Words(), c.Scoring.Frequency)
		}
		if err != nil {
			return nil, fmt.Errorf("load reference data: %w", err)
		}
	}
	return scorer.New(ref, c.Weights())
}
