package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// WriteWAV writes mono float64 samples as a 16-bit PCM WAV file.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * 2)

	// RIFF header
	w.WriteString("RIFF")
	binary.Write(w, binary.LittleEndian, uint32(36+dataSize))
	w.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit
	w.WriteString("fmt ")
	binary.Write(w, binary.LittleEndian, uint32(16))
	binary.Write(w, binary.LittleEndian, uint16(1))
	binary.Write(w, binary.LittleEndian, uint16(1))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, byteRate)
	binary.Write(w, binary.LittleEndian, uint16(2))
	binary.Write(w, binary.LittleEndian, uint16(16))

	// data chunk
	w.WriteString("data")
	binary.Write(w, binary.LittleEndian, dataSize)
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(w, binary.LittleEndian, int16(s*32767))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("audio: write %s: %w", path, err)
	}
	return nil
}
