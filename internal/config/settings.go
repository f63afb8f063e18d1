package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendGorm   Backend = "gorm"
)

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxAudioBytes   int64         `mapstructure:"max_audio_bytes"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
	DB   int    `mapstructure:"db"`
}

// StorageConfig picks the backend for each store.
type StorageConfig struct {
	SessionBackend Backend       `mapstructure:"session_backend"`
	CacheBackend   Backend       `mapstructure:"cache_backend"`
	ProfileBackend Backend       `mapstructure:"profile_backend"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

type PipelineConfig struct {
	Deadline         time.Duration `mapstructure:"deadline"`
	ModelTimeout     time.Duration `mapstructure:"model_timeout"`
	FallbackTimeout  time.Duration `mapstructure:"fallback_timeout"`
	Language         string        `mapstructure:"language"`
	Temperature      float64       `mapstructure:"temperature"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	HistoryWindow    int           `mapstructure:"history_window"`
	CacheKeyMaxRunes int           `mapstructure:"cache_key_max_runes"`
	FallbackPhrase   string        `mapstructure:"fallback_phrase"`
	LegacySessionKey string        `mapstructure:"legacy_session_key"`
}

type OllamaConfig struct {
	URLs []string `mapstructure:"urls"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type AssistantConfig struct {
	Provider     string       `mapstructure:"provider"`
	Model        string       `mapstructure:"model"`
	OpenAiApiKey string       `mapstructure:"open_ai_api_key"`
	OpenAiURL    string       `mapstructure:"open_ai_url"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
	Ollama       OllamaConfig `mapstructure:"ollama"`
}

type VoiceConfig struct {
	STTProvider string            `mapstructure:"stt_provider"`
	STTURL      string            `mapstructure:"stt_url"`
	STTPrompt   string            `mapstructure:"stt_prompt"`
	TTSProvider string            `mapstructure:"tts_provider"`
	TTSURL      string            `mapstructure:"tts_url"`
	TTSVoice    string            `mapstructure:"tts_voice"`
	TTSVoices   map[string]string `mapstructure:"tts_voices"`
	ConvertMP3  bool              `mapstructure:"convert_mp3"`
}

type AudioConfig struct {
	DefaultSampleRate int `mapstructure:"default_sample_rate"`
	// StreamBufferBytes caps one utterance on the websocket endpoint.
	StreamBufferBytes int `mapstructure:"stream_buffer_bytes"`
}

type Settings struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Env       string          `mapstructure:"env"`
	Debug     bool            `mapstructure:"debug"`
}

var (
	ErrInvalidBackend  = errors.New("invalid storage backend")
	ErrInvalidDeadline = errors.New("model timeout must be shorter than the pipeline deadline")
	ErrInvalidWindow   = errors.New("history window must be at least 1")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_audio_bytes", 10<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "voxrelay")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "voxrelay")
	v.SetDefault("database.pool_size", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pass", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.session_backend", string(BackendGorm))
	v.SetDefault("storage.cache_backend", string(BackendRedis))
	v.SetDefault("storage.profile_backend", string(BackendGorm))
	v.SetDefault("storage.session_ttl", time.Duration(0))
	v.SetDefault("storage.cache_ttl", time.Duration(0))

	v.SetDefault("pipeline.deadline", 15*time.Second)
	v.SetDefault("pipeline.model_timeout", 10*time.Second)
	v.SetDefault("pipeline.fallback_timeout", 5*time.Second)
	v.SetDefault("pipeline.language", "es")
	v.SetDefault("pipeline.temperature", 0.3)
	v.SetDefault("pipeline.max_tokens", 100)
	v.SetDefault("pipeline.history_window", 20)
	v.SetDefault("pipeline.cache_key_max_runes", 100)
	v.SetDefault("pipeline.fallback_phrase", "Lo siento, la respuesta está tardando demasiado. Inténtalo de nuevo.")
	v.SetDefault("pipeline.legacy_session_key", "default_session")

	v.SetDefault("assistant.provider", "openai")
	v.SetDefault("assistant.model", "gpt-3.5-turbo")
	v.SetDefault("assistant.open_ai_api_key", "")
	v.SetDefault("assistant.open_ai_url", "")
	v.SetDefault("assistant.gemini.api_key", "")
	v.SetDefault("assistant.ollama.urls", []string{"http://localhost:11434"})

	v.SetDefault("voice.stt_provider", "whisper")
	v.SetDefault("voice.stt_url", "http://localhost:9000")
	v.SetDefault("voice.stt_prompt", "")
	v.SetDefault("voice.tts_provider", "piper")
	v.SetDefault("voice.tts_url", "http://localhost:5000")
	v.SetDefault("voice.tts_voice", "es_ES-davefx-medium")
	v.SetDefault("voice.convert_mp3", true)

	v.SetDefault("audio.default_sample_rate", 16000)
	v.SetDefault("audio.stream_buffer_bytes", 2<<20)
}

// Load reads config_<env>.yaml (or path when non-empty) layered over
// defaults and VOXRELAY_* environment variables.
func Load(path string) (*Settings, error) {
	return LoadFrom(viper.New(), path)
}

func LoadFrom(v *viper.Viper, path string) (*Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix("VOXRELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config_" + genEnv(v))
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) Validate() error {
	for _, b := range []Backend{s.Storage.SessionBackend, s.Storage.CacheBackend, s.Storage.ProfileBackend} {
		switch b {
		case BackendMemory, BackendRedis, BackendGorm:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidBackend, b)
		}
	}
	if s.Storage.ProfileBackend == BackendRedis {
		return fmt.Errorf("%w: profiles support memory or gorm", ErrInvalidBackend)
	}
	if s.Pipeline.ModelTimeout >= s.Pipeline.Deadline {
		return ErrInvalidDeadline
	}
	if s.Pipeline.HistoryWindow < 1 {
		return ErrInvalidWindow
	}
	return nil
}

// UsesDB reports whether any store needs the relational connection.
func (s *Settings) UsesDB() bool {
	return s.Storage.SessionBackend == BackendGorm ||
		s.Storage.CacheBackend == BackendGorm ||
		s.Storage.ProfileBackend == BackendGorm
}

func (s *Settings) UsesRedis() bool {
	return s.Storage.SessionBackend == BackendRedis || s.Storage.CacheBackend == BackendRedis
}

func genEnv(v *viper.Viper) string {
	env := v.GetString("env")
	if env == "" {
		return "dev"
	}
	return env
}
