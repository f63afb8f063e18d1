package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}
	wav := EncodeWAV(pcm, 16000, 1)

	require.Len(t, wav, wavHeaderSize+len(pcm))
	assert.True(t, IsWAV(wav))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, pcm, wav[wavHeaderSize:])
}

func TestNormalizeMulaw(t *testing.T) {
	body := []byte{0xff, 0x7f, 0x00, 0x80}
	out, ct, err := Normalize(body, "audio/basic", 16000)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", ct)
	assert.True(t, IsWAV(out))
	// each µ-law byte expands to one 16-bit sample
	assert.Len(t, out, wavHeaderSize+2*len(body))
	assert.Equal(t, uint32(g711Rate), binary.LittleEndian.Uint32(out[24:28]))
}

func TestNormalizeAlawWithRate(t *testing.T) {
	out, ct, err := Normalize([]byte{0xd5, 0x55}, "audio/x-alaw; rate=16000", 8000)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(out[24:28]))
}

func TestNormalizeRawPCMUsesDefaultRate(t *testing.T) {
	out, ct, err := Normalize([]byte{0, 0, 1, 0}, "audio/pcm; channels=2", 22050)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(22050), binary.LittleEndian.Uint32(out[24:28]))
}

func TestNormalizeL16IsBigEndian(t *testing.T) {
	body := make([]byte, 4)
	binary.BigEndian.PutUint16(body[0:], 1000)
	binary.BigEndian.PutUint16(body[2:], uint16(0xfc18)) // -1000

	out, ct, err := Normalize(body, "audio/L16; rate=16000", 8000)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, int16(1000), int16(binary.LittleEndian.Uint16(out[wavHeaderSize:])))
	assert.Equal(t, int16(-1000), int16(binary.LittleEndian.Uint16(out[wavHeaderSize+2:])))
	assert.Equal(t, uint16(1000), binary.BigEndian.Uint16(body), "input is not modified")
}

func TestNormalizePCMIsLittleEndian(t *testing.T) {
	body := make([]byte, 2)
	binary.LittleEndian.PutUint16(body, 1000)

	out, _, err := Normalize(body, "audio/x-pcm", 16000)
	require.NoError(t, err)
	assert.Equal(t, int16(1000), int16(binary.LittleEndian.Uint16(out[wavHeaderSize:])))
}

func TestNormalizeL16OddLength(t *testing.T) {
	out, _, err := Normalize([]byte{0x03, 0xe8, 0x7f}, "audio/L16", 16000)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xe8, 0x03, 0x7f}, out[wavHeaderSize:])
}

func TestNormalizePassThrough(t *testing.T) {
	body := []byte("ID3 fake mp3")
	out, ct, err := Normalize(body, "audio/mpeg", 16000)
	require.NoError(t, err)
	assert.Equal(t, body, out)
	assert.Equal(t, "audio/mpeg", ct)

	wav := EncodeWAV([]byte{0, 0}, 8000, 1)
	out, ct, err = Normalize(wav, "", 16000)
	require.NoError(t, err)
	assert.Equal(t, wav, out)
	assert.Equal(t, "audio/wav", ct)
}

func TestNormalizeEmpty(t *testing.T) {
	_, _, err := Normalize(nil, "audio/wav", 16000)
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestCheckContentType(t *testing.T) {
	assert.NoError(t, CheckContentType(""))
	assert.NoError(t, CheckContentType("audio/L16; rate=16000"))
	assert.ErrorIs(t, CheckContentType("audio/L16; rate"), ErrMalformedContentType)

	// still accepted, just not decoded
	out, ct, err := Normalize([]byte{1, 2}, "audio/L16; rate", 16000)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, out)
	assert.Equal(t, "application/octet-stream", ct)
}
