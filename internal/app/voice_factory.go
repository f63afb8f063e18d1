package app

import (
	"errors"
	"fmt"

	"github.com/xpanvictor/voxrelay/internal/config"
	"github.com/xpanvictor/voxrelay/pkg/Logger"
	"github.com/xpanvictor/voxrelay/pkg/io/stt"
	sttopenai "github.com/xpanvictor/voxrelay/pkg/io/stt/openai"
	"github.com/xpanvictor/voxrelay/pkg/io/stt/whisper"
	"github.com/xpanvictor/voxrelay/pkg/io/tts"
	ttsopenai "github.com/xpanvictor/voxrelay/pkg/io/tts/openai"
	"github.com/xpanvictor/voxrelay/pkg/io/tts/piper"
)

const (
	VoiceWhisper = "whisper"
	VoicePiper   = "piper"
)

var ErrUnknownVoiceProvider = errors.New("unknown voice provider")

func NewRecognizer(voice config.VoiceConfig, ai config.AssistantConfig, logger *Logger.Logger) (stt.Recognizer, error) {
	switch voice.STTProvider {
	case VoiceWhisper, "":
		return whisper.NewWhisperClient(voice.STTURL, logger, whisper.WithInitialPrompt(voice.STTPrompt)), nil
	case ProviderOpenAI:
		return sttopenai.New(sttopenai.Config{APIKey: ai.OpenAiApiKey, BaseURL: ai.OpenAiURL}), nil
	}
	return nil, fmt.Errorf("%w: stt %q", ErrUnknownVoiceProvider, voice.STTProvider)
}

func NewSynthesizer(voice config.VoiceConfig, ai config.AssistantConfig) (tts.Synthesizer, error) {
	switch voice.TTSProvider {
	case VoicePiper, "":
		p := piper.New(voice.TTSURL, voice.TTSVoice)
		p.Voices = voice.TTSVoices
		p.MP3 = voice.ConvertMP3
		return p, nil
	case ProviderOpenAI:
		return ttsopenai.New(ttsopenai.Config{
			APIKey:  ai.OpenAiApiKey,
			BaseURL: ai.OpenAiURL,
			Voice:   voice.TTSVoice,
		}), nil
	}
	return nil, fmt.Errorf("%w: tts %q", ErrUnknownVoiceProvider, voice.TTSProvider)
}
