package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// Decoder yields signed 16-bit little-endian interleaved PCM.
type Decoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// Supported reports whether path has an extension OpenDecoder understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".flac", ".ogg":
		return true
	}
	return false
}

// OpenDecoder picks a decoder for f by file extension.
func OpenDecoder(f *os.File) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, fmt.Errorf("decoding MP3: %w", err)
		}
		return mp3Track{dec}, nil
	case ".wav":
		return openWAV(f)
	case ".flac":
		return openFLAC(f)
	case ".ogg":
		return openOGG(f)
	default:
		return nil, fmt.Errorf("unsupported format: %q", ext)
	}
}

func clamp16(s int) int16 {
	return int16(min(max(s, -32768), 32767))
}

// pcm holds converted bytes that did not fit the caller's buffer plus the
// output byte offset shared by all the converting decoders.
type pcm struct {
	pending  []byte
	pos      int64
	total    int64
	rate     int
	channels int
}

func (p *pcm) drain(dst []byte) (int, bool) {
	if len(p.pending) == 0 {
		return 0, false
	}
	n := copy(dst, p.pending)
	p.pending = p.pending[n:]
	p.pos += int64(n)
	return n, true
}

func (p *pcm) emit(dst, raw []byte) int {
	n := copy(dst, raw)
	if n < len(raw) {
		p.pending = raw[n:]
	}
	p.pos += int64(n)
	return n
}

// target resolves a Seek request to a frame index and the aligned byte
// offset it corresponds to.
func (p *pcm) target(offset int64, whence int) (frame, pos int64) {
	switch whence {
	case io.SeekCurrent:
		offset += p.pos
	case io.SeekEnd:
		offset += p.total
	}
	offset = min(max(offset, 0), p.total)
	frameSize := int64(p.channels) * 2
	frame = offset / frameSize
	return frame, frame * frameSize
}

func (p *pcm) moved(pos int64) {
	p.pending = nil
	p.pos = pos
}

func (p *pcm) Length() int64     { return p.total }
func (p *pcm) SampleRate() int   { return p.rate }
func (p *pcm) ChannelCount() int { return p.channels }

type mp3Track struct{ *mp3.Decoder }

func (d mp3Track) ChannelCount() int { return 2 }

type wavTrack struct {
	pcm
	file      *os.File
	start     int64
	depth     int
	frameSize int64
}

func openWAV(f *os.File) (*wavTrack, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating WAV PCM data: %w", err)
	}
	channels, depth := int(dec.NumChans), int(dec.BitDepth)
	if channels == 0 || depth%8 != 0 || depth == 0 || depth > 32 {
		return nil, fmt.Errorf("unsupported WAV layout: %d channels, %d bits", channels, depth)
	}
	frameSize := int64(channels * depth / 8)
	return &wavTrack{
		pcm: pcm{
			total:    dec.PCMLen() / frameSize * int64(channels) * 2,
			rate:     int(dec.SampleRate),
			channels: channels,
		},
		file:      f,
		start:     start,
		depth:     depth,
		frameSize: frameSize,
	}, nil
}

func (d *wavTrack) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	width := d.depth / 8
	src := make([]byte, max(len(p)/2, 1)*width)
	n, err := io.ReadFull(d.file, src)
	samples := n / width
	if samples == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samples*2)
	for i := range samples {
		b := src[i*width:]
		var s int
		switch d.depth {
		case 8:
			s = (int(b[0]) - 128) << 8
		case 16:
			s = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			s = int(v<<8>>8) >> 8
		case 32:
			s = int(int32(binary.LittleEndian.Uint32(b)) >> 16)
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(s)))
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return d.emit(p, raw), err
}

func (d *wavTrack) Seek(offset int64, whence int) (int64, error) {
	frame, pos := d.target(offset, whence)
	if _, err := d.file.Seek(d.start+frame*d.frameSize, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

type flacTrack struct {
	pcm
	stream *flac.Stream
	bps    int
}

func openFLAC(f *os.File) (*flacTrack, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	return &flacTrack{
		pcm: pcm{
			total:    int64(info.NSamples) * int64(info.NChannels) * 2,
			rate:     int(info.SampleRate),
			channels: int(info.NChannels),
		},
		stream: stream,
		bps:    int(info.BitsPerSample),
	}, nil
}

func (d *flacTrack) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}
	n := int(frame.Subframes[0].NSamples)
	raw := make([]byte, n*d.channels*2)
	for i := range n {
		for ch := range d.channels {
			s := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				s >>= d.bps - 16
			} else {
				s <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clamp16(s)))
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacTrack) Seek(offset int64, whence int) (int64, error) {
	frame, pos := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

type oggTrack struct {
	pcm
	reader *oggvorbis.Reader
}

func openOGG(f *os.File) (*oggTrack, error) {
	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggTrack{
		pcm: pcm{
			total:    r.Length() * int64(r.Channels()) * 2,
			rate:     r.SampleRate(),
			channels: r.Channels(),
		},
		reader: r,
	}, nil
}

func (d *oggTrack) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}
	samples := make([]float32, max(len(p)/2, 1))
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(int(s*32767))))
	}
	return d.emit(p, raw), err
}

func (d *oggTrack) Seek(offset int64, whence int) (int64, error) {
	frame, pos := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}
