package store

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-workbench/internal/wavio"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Options{Dir: t.TempDir(), InputName: "input.wav", OutputName: "output.wav"})
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{InputName: "a.wav", OutputName: "b.wav"})
	require.Error(t, err)

	_, err = New(Options{Dir: t.TempDir(), InputName: "a.wav", OutputName: "./a.wav"})
	require.Error(t, err)
}

func TestParseSlot(t *testing.T) {
	slot, err := ParseSlot(" Output ")
	require.NoError(t, err)
	assert.Equal(t, Output, slot)

	_, err = ParseSlot("scratch")
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestSaveLoad(t *testing.T) {
	s := newTestStore(t)
	sig := wavio.Signal{SampleRate: 16000, Samples: []int{1, 2, 3, -4}}

	require.NoError(t, s.Save(Input, sig))
	got, err := s.Load(Input)
	require.NoError(t, err)
	assert.Equal(t, sig, got)

	_, err = s.Load(Output)
	require.ErrorIs(t, err, wavio.ErrNotFound)

	p, err := s.Path(Output)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "output.wav"), p)

	_, err = s.Path("scratch")
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestSaveInterleaved(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveInterleaved(Input, 44100, 2, []int{1, -1, 2, -2, 3, -3}))

	info, err := s.Inspect(Input)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 3, info.Frames)

	sig, err := s.Load(Input)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, sig.Samples)
}

func TestUpdate_LocksOnlyHeldSlots(t *testing.T) {
	s := newTestStore(t)
	err := s.Update(func(tx *Txn) error {
		return tx.Save(Output, wavio.Signal{SampleRate: 8000, Samples: []int{1}})
	}, Input)
	require.Error(t, err)

	err = s.Update(func(*Txn) error { return nil }, Slot("scratch"))
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestUpdate_SerializesWriters(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(Output, wavio.Signal{SampleRate: 8000, Samples: []int{0}}))

	// Concurrent read-modify-write cycles must not lose increments.
	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(func(tx *Txn) error {
				sig, err := tx.Load(Output)
				if err != nil {
					return err
				}
				sig.Samples[0]++
				return tx.Save(Output, sig)
			}, Output, Input)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sig, err := s.Load(Output)
	require.NoError(t, err)
	assert.Equal(t, workers, sig.Samples[0])
}

func TestImport_WAV(t *testing.T) {
	src := filepath.Join(t.TempDir(), "upload.wav")
	require.NoError(t, wavio.SaveInterleaved(src, 8000, 2, []int{7, 70, 8, 80}))
	data, err := os.ReadFile(src)
	require.NoError(t, err)

	s := newTestStore(t)
	require.NoError(t, s.Import(Input, "upload.wav", bytes.NewReader(data)))

	sig, err := s.Load(Input)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, sig.Samples)
	assertNoStagingFiles(t, s)
}

func TestImport_CorruptLeavesSlotUntouched(t *testing.T) {
	s := newTestStore(t)
	orig := wavio.Signal{SampleRate: 8000, Samples: []int{42, 43}}
	require.NoError(t, s.Save(Input, orig))

	for _, name := range []string{"bad.wav", "bad.mp3", "bad.ogg"} {
		err := s.Import(Input, name, bytes.NewReader([]byte("this is not audio at all")))
		require.ErrorIs(t, err, wavio.ErrDecode, name)
	}

	got, err := s.Load(Input)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
	assertNoStagingFiles(t, s)
}

func assertNoStagingFiles(t *testing.T, s *Store) {
	t.Helper()
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, byte('.'), e.Name()[0], "leftover temp file %s", e.Name())
	}
}
