// Package store manages the workbench's named WAV artifacts. Each artifact
// has its own mutex, and every write goes through the atomic file layer in
// wavio, so a failed operation never leaves a partial artifact behind.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tphakala/go-audio-workbench/internal/wavio"
)

// ErrUnknownSlot is returned for an artifact name other than input or output.
var ErrUnknownSlot = errors.New("unknown artifact")

// Slot names an artifact.
type Slot string

// The two artifacts. Locks are always taken in this order.
const (
	Input  Slot = "input"
	Output Slot = "output"
)

var slotOrder = []Slot{Input, Output}

// ParseSlot parses "input" or "output".
func ParseSlot(s string) (Slot, error) {
	slot := Slot(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(slotOrder, slot) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	return slot, nil
}

// Options configures a Store.
type Options struct {
	Dir        string
	InputName  string
	OutputName string
	Logger     *zap.Logger
}

// Store resolves artifacts under a directory and serializes access to each.
type Store struct {
	dir    string
	files  map[Slot]string
	locks  map[Slot]*sync.Mutex
	logger *zap.Logger
}

// New creates a Store. The directory is created lazily on first write.
func New(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("store: directory must not be empty")
	}
	if opts.InputName == "" || opts.OutputName == "" {
		return nil, errors.New("store: artifact file names must not be empty")
	}
	if filepath.Clean(opts.InputName) == filepath.Clean(opts.OutputName) {
		return nil, fmt.Errorf("store: input and output share the file name %q", opts.InputName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir: opts.Dir,
		files: map[Slot]string{
			Input:  filepath.Join(opts.Dir, opts.InputName),
			Output: filepath.Join(opts.Dir, opts.OutputName),
		},
		locks:  map[Slot]*sync.Mutex{Input: {}, Output: {}},
		logger: logger.With(zap.String("component", "store")),
	}, nil
}

// Dir returns the asset directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of slot.
func (s *Store) Path(slot Slot) (string, error) {
	p, ok := s.files[slot]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return p, nil
}

// Txn gives access to the slots locked by Update.
type Txn struct {
	s    *Store
	held []Slot
}

// Update runs fn while holding the locks of slots, acquired in slot order
// (input before output) and released when fn returns.
func (s *Store) Update(fn func(tx *Txn) error, slots ...Slot) error {
	held := make([]Slot, 0, len(slots))
	for _, slot := range slotOrder {
		if slices.Contains(slots, slot) {
			held = append(held, slot)
		}
	}
	for _, slot := range slots {
		if !slices.Contains(slotOrder, slot) {
			return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
		}
	}

	for _, slot := range held {
		s.locks[slot].Lock()
	}
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			s.locks[held[i]].Unlock()
		}
	}()

	return fn(&Txn{s: s, held: held})
}

func (tx *Txn) path(slot Slot) (string, error) {
	if !slices.Contains(tx.held, slot) {
		return "", fmt.Errorf("store: %s is not locked by this transaction", slot)
	}
	return tx.s.Path(slot)
}

// Load reads slot as a mono signal.
func (tx *Txn) Load(slot Slot) (wavio.Signal, error) {
	p, err := tx.path(slot)
	if err != nil {
		return wavio.Signal{}, err
	}
	sig, err := wavio.Load(p)
	if err != nil {
		return wavio.Signal{}, err
	}
	tx.s.logger.Debug("artifact loaded",
		zap.String("slot", string(slot)),
		zap.Int("samples", len(sig.Samples)),
		zap.Int("rate", sig.SampleRate))
	return sig, nil
}

// Save writes sig to slot.
func (tx *Txn) Save(slot Slot, sig wavio.Signal) error {
	p, err := tx.path(slot)
	if err != nil {
		return err
	}
	if err := wavio.Save(p, sig); err != nil {
		return err
	}
	tx.s.logger.Debug("artifact saved",
		zap.String("slot", string(slot)),
		zap.Int("samples", len(sig.Samples)),
		zap.Int("rate", sig.SampleRate))
	return nil
}

// SaveInterleaved writes multi-channel frames to slot.
func (tx *Txn) SaveInterleaved(slot Slot, rate, channels int, data []int) error {
	p, err := tx.path(slot)
	if err != nil {
		return err
	}
	if err := wavio.SaveInterleaved(p, rate, channels, data); err != nil {
		return err
	}
	tx.s.logger.Debug("artifact recorded",
		zap.String("slot", string(slot)),
		zap.Int("channels", channels),
		zap.Int("samples", len(data)),
		zap.Int("rate", rate))
	return nil
}

// Load reads slot under its lock.
func (s *Store) Load(slot Slot) (wavio.Signal, error) {
	var sig wavio.Signal
	err := s.Update(func(tx *Txn) error {
		var err error
		sig, err = tx.Load(slot)
		return err
	}, slot)
	return sig, err
}

// Save writes sig to slot under its lock.
func (s *Store) Save(slot Slot, sig wavio.Signal) error {
	return s.Update(func(tx *Txn) error { return tx.Save(slot, sig) }, slot)
}

// SaveInterleaved writes frames to slot under its lock.
func (s *Store) SaveInterleaved(slot Slot, rate, channels int, data []int) error {
	return s.Update(func(tx *Txn) error {
		return tx.SaveInterleaved(slot, rate, channels, data)
	}, slot)
}

// Inspect returns the header facts of slot.
func (s *Store) Inspect(slot Slot) (wavio.Info, error) {
	var info wavio.Info
	err := s.Update(func(tx *Txn) error {
		p, err := tx.path(slot)
		if err != nil {
			return err
		}
		info, err = wavio.Inspect(p)
		return err
	}, slot)
	return info, err
}

// Import stores an upload in slot. The upload is staged next to the slot,
// transcoded when it is MP3 or Ogg Vorbis, normalized and test-loaded; only
// then does it replace the slot. On failure the slot is left untouched and
// the error wraps wavio.ErrDecode when the data could not be decoded.
func (s *Store) Import(slot Slot, filename string, r io.Reader) error {
	target, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", s.dir, err)
	}

	staged, err := s.stage(filename, r)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(staged) }()

	if _, err := wavio.NormalizeFormat(staged); err != nil {
		return err
	}
	sig, err := wavio.Load(staged)
	if err != nil {
		return err
	}

	return s.Update(func(*Txn) error {
		if err := os.Rename(staged, target); err != nil {
			return fmt.Errorf("replace %s: %w", target, err)
		}
		s.logger.Info("upload imported",
			zap.String("slot", string(slot)),
			zap.String("filename", filename),
			zap.Int("samples", len(sig.Samples)),
			zap.Int("rate", sig.SampleRate))
		return nil
	}, slot)
}

// stage writes the upload into a temporary WAV file in the asset directory.
func (s *Store) stage(filename string, r io.Reader) (string, error) {
	f, err := os.CreateTemp(s.dir, ".import-*.wav")
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	name := f.Name()

	switch c := wavio.ContainerFor(filename); c {
	case wavio.ContainerWAV:
		_, err = io.Copy(f, r)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			err = fmt.Errorf("stage upload %s: %w", filename, err)
		}
	default:
		_ = f.Close()
		err = wavio.Transcode(name, c, r)
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
