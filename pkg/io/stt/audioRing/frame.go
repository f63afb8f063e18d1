package audioring

import (
	"encoding/binary"
	"errors"
	"time"
)

// timestamp(8) + sampleRate(4) + channels(2) + dataLen(4)
const frameHeaderSize = 18

var (
	ErrShortFrame    = errors.New("encoded frame is truncated")
	ErrFrameTooLarge = errors.New("audio frame too large for buffer")
	ErrBufferFull    = errors.New("utterance buffer is full")
	ErrMixedFormat   = errors.New("frames disagree on sample rate or channels")
)

// Frame is one chunk of 16-bit little-endian PCM as received from a device.
type Frame struct {
	Data       []byte
	Timestamp  time.Time
	SampleRate int32
	Channels   int16
}

func (f *Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, frameHeaderSize, frameHeaderSize+len(f.Data))
	binary.LittleEndian.PutUint64(buf[0:], uint64(f.Timestamp.UnixNano()))
	binary.LittleEndian.PutUint32(buf[8:], uint32(f.SampleRate))
	binary.LittleEndian.PutUint16(buf[12:], uint16(f.Channels))
	binary.LittleEndian.PutUint32(buf[14:], uint32(len(f.Data)))
	return append(buf, f.Data...), nil
}

func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameHeaderSize {
		return ErrShortFrame
	}
	dataLen := int(binary.LittleEndian.Uint32(data[14:]))
	if len(data)-frameHeaderSize < dataLen {
		return ErrShortFrame
	}

	f.Timestamp = time.Unix(0, int64(binary.LittleEndian.Uint64(data[0:])))
	f.SampleRate = int32(binary.LittleEndian.Uint32(data[8:]))
	f.Channels = int16(binary.LittleEndian.Uint16(data[12:]))
	f.Data = make([]byte, dataLen)
	copy(f.Data, data[frameHeaderSize:frameHeaderSize+dataLen])
	return nil
}

// Join concatenates frames into one PCM payload. Frames with a zero rate or
// channel count inherit the first explicit value.
func Join(frames []Frame) ([]byte, int32, int16, error) {
	var (
		rate     int32
		channels int16
		size     int
	)
	for _, f := range frames {
		if f.SampleRate != 0 {
			if rate != 0 && rate != f.SampleRate {
				return nil, 0, 0, ErrMixedFormat
			}
			rate = f.SampleRate
		}
		if f.Channels != 0 {
			if channels != 0 && channels != f.Channels {
				return nil, 0, 0, ErrMixedFormat
			}
			channels = f.Channels
		}
		size += len(f.Data)
	}

	pcm := make([]byte, 0, size)
	for _, f := range frames {
		pcm = append(pcm, f.Data...)
	}
	return pcm, rate, channels, nil
}
