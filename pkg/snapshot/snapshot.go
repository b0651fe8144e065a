// Package snapshot persists the per-pin slack and criticality arrays of one
// analysis pass as a compact binary record, so drivers can archive and diff
// passes between optimizer iterations.
//
// Record layout:
//
//	[magic:4][version:1][id:16][captured_at:8][objective_len:2][objective:N]
//	[pin_count:4][payload_len:4][snappy payload][checksum:4]
//
// The payload is the slack array followed by the criticality array, both as
// little-endian float64 bits (NaN and +Inf round-trip exactly), compressed
// with snappy. The checksum is CRC32 (IEEE) over the compressed payload.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
)

var magic = [4]byte{'T', 'C', 'R', 'T'}

const version = 1

var (
	// ErrBadMagic indicates the input is not a snapshot record.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrVersion indicates a record written by an incompatible version.
	ErrVersion = errors.New("snapshot: unsupported version")
	// ErrChecksum indicates payload corruption.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
)

// Snapshot is one archived analysis pass for a single objective.
type Snapshot struct {
	ID            uuid.UUID
	CapturedAt    time.Time
	Objective     string
	Slacks        []float64
	Criticalities []float64
}

// Capture copies the given per-pin arrays into a new snapshot stamped with
// a fresh id and the current time.
func Capture(objective string, slacks, criticalities []float64) (*Snapshot, error) {
	if len(slacks) != len(criticalities) {
		return nil, fmt.Errorf("snapshot: array length mismatch: %d slacks vs %d criticalities",
			len(slacks), len(criticalities))
	}

	s := &Snapshot{
		ID:            uuid.New(),
		CapturedAt:    time.Now(),
		Objective:     objective,
		Slacks:        make([]float64, len(slacks)),
		Criticalities: make([]float64, len(criticalities)),
	}
	copy(s.Slacks, slacks)
	copy(s.Criticalities, criticalities)
	return s, nil
}

// PinCount returns the number of pins in the snapshot.
func (s *Snapshot) PinCount() int { return len(s.Slacks) }

// Write encodes the snapshot to w.
func (s *Snapshot) Write(w io.Writer) error {
	n := len(s.Slacks)

	raw := make([]byte, 16*n)
	for i, v := range s.Slacks {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	for i, v := range s.Criticalities {
		binary.LittleEndian.PutUint64(raw[8*(n+i):], math.Float64bits(v))
	}
	payload := snappy.Encode(nil, raw)

	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("snapshot: write magic: %w", err)
	}
	if _, err := w.Write([]byte{version}); err != nil {
		return fmt.Errorf("snapshot: write version: %w", err)
	}
	if _, err := w.Write(s.ID[:]); err != nil {
		return fmt.Errorf("snapshot: write id: %w", err)
	}

	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(s.CapturedAt.UnixNano()))
	if _, err := w.Write(scratch[:]); err != nil {
		return fmt.Errorf("snapshot: write timestamp: %w", err)
	}

	if len(s.Objective) > math.MaxUint16 {
		return fmt.Errorf("snapshot: objective name too long: %d bytes", len(s.Objective))
	}
	binary.LittleEndian.PutUint16(scratch[:2], uint16(len(s.Objective)))
	if _, err := w.Write(scratch[:2]); err != nil {
		return fmt.Errorf("snapshot: write objective length: %w", err)
	}
	if _, err := io.WriteString(w, s.Objective); err != nil {
		return fmt.Errorf("snapshot: write objective: %w", err)
	}

	binary.LittleEndian.PutUint32(scratch[:4], uint32(n))
	if _, err := w.Write(scratch[:4]); err != nil {
		return fmt.Errorf("snapshot: write pin count: %w", err)
	}
	binary.LittleEndian.PutUint32(scratch[:4], uint32(len(payload)))
	if _, err := w.Write(scratch[:4]); err != nil {
		return fmt.Errorf("snapshot: write payload length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}

	binary.LittleEndian.PutUint32(scratch[:4], crc32.ChecksumIEEE(payload))
	if _, err := w.Write(scratch[:4]); err != nil {
		return fmt.Errorf("snapshot: write checksum: %w", err)
	}
	return nil
}

// Read decodes one snapshot record from r.
func Read(r io.Reader) (*Snapshot, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read magic: %w", err)
	}
	if head != magic {
		return nil, ErrBadMagic
	}

	var ver [1]byte
	if _, err := io.ReadFull(r, ver[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read version: %w", err)
	}
	if ver[0] != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, ver[0])
	}

	s := &Snapshot{}
	if _, err := io.ReadFull(r, s.ID[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read id: %w", err)
	}

	var scratch [8]byte
	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read timestamp: %w", err)
	}
	s.CapturedAt = time.Unix(0, int64(binary.LittleEndian.Uint64(scratch[:])))

	if _, err := io.ReadFull(r, scratch[:2]); err != nil {
		return nil, fmt.Errorf("snapshot: read objective length: %w", err)
	}
	objective := make([]byte, binary.LittleEndian.Uint16(scratch[:2]))
	if _, err := io.ReadFull(r, objective); err != nil {
		return nil, fmt.Errorf("snapshot: read objective: %w", err)
	}
	s.Objective = string(objective)

	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return nil, fmt.Errorf("snapshot: read pin count: %w", err)
	}
	n := int(binary.LittleEndian.Uint32(scratch[:4]))

	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return nil, fmt.Errorf("snapshot: read payload length: %w", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(scratch[:4]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}

	if _, err := io.ReadFull(r, scratch[:4]); err != nil {
		return nil, fmt.Errorf("snapshot: read checksum: %w", err)
	}
	if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(scratch[:4]) {
		return nil, ErrChecksum
	}

	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress payload: %w", err)
	}
	if len(raw) != 16*n {
		return nil, fmt.Errorf("snapshot: payload size %d does not match pin count %d", len(raw), n)
	}

	s.Slacks = make([]float64, n)
	s.Criticalities = make([]float64, n)
	for i := 0; i < n; i++ {
		s.Slacks[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		s.Criticalities[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*(n+i):]))
	}
	return s, nil
}

// WriteFile writes the snapshot to path.
func (s *Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := s.Write(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	return f.Close()
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open file: %w", err)
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}
