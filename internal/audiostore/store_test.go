package audiostore

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestPutGet_ExactBytes(t *testing.T) {
	s := newStore(t, Config{})
	data := []byte("RIFF....WAVEfmt ")

	id, err := s.Put(Clip{Data: data, Format: "wav", SampleRate: 24000})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	clip, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, data, clip.Data)
	assert.Equal(t, "wav", clip.Format)
	assert.Equal(t, 24000, clip.SampleRate)
}

func TestGet_UnknownID(t *testing.T) {
	s := newStore(t, Config{})
	_, err := s.Get("never-stored")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPut_UniqueIDs(t *testing.T) {
	s := newStore(t, Config{})
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := s.Put(Clip{Data: []byte{byte(i)}})
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestPut_Concurrent(t *testing.T) {
	s := newStore(t, Config{})

	var wg sync.WaitGroup
	ids := make([]string, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.Put(Clip{Data: bytes.Repeat([]byte{byte(i)}, 64)})
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		clip, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, bytes.Repeat([]byte{byte(i)}, 64), clip.Data)
	}
}

func TestPut_Expires(t *testing.T) {
	s := newStore(t, Config{TTL: 20 * time.Millisecond})
	id, err := s.Put(Clip{Data: []byte("short-lived")})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := s.Get(id)
		return err == ErrNotFound
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPut_RejectsOversizedClip(t *testing.T) {
	s := newStore(t, Config{MaxBytes: 16})
	_, err := s.Put(Clip{Data: make([]byte, 1024)})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestPut_FullStoreEvictsOldestInsteadOfRejecting(t *testing.T) {
	const clipSize = 1 << 10
	s := newStore(t, Config{MaxBytes: 10 * clipSize})

	var old []string
	for i := 0; i < 10; i++ {
		id, err := s.Put(Clip{Data: bytes.Repeat([]byte{byte(i)}, clipSize)})
		require.NoError(t, err)
		old = append(old, id)
	}
	// Heavily fetched clips must not block newer ones.
	for _, id := range old {
		for j := 0; j < 50; j++ {
			_, err := s.Get(id)
			require.NoError(t, err)
		}
	}

	for i := 0; i < 20; i++ {
		data := bytes.Repeat([]byte{byte(100 + i)}, clipSize)
		id, err := s.Put(Clip{Data: data})
		require.NoError(t, err, "put %d", i)

		clip, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, data, clip.Data)
		assert.LessOrEqual(t, s.Bytes(), int64(10*clipSize))
	}

	for _, id := range old {
		_, err := s.Get(id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestPut_EvictsLeastRecentlyUsed(t *testing.T) {
	s := newStore(t, Config{MaxBytes: 3})

	a, err := s.Put(Clip{Data: []byte("a")})
	require.NoError(t, err)
	b, err := s.Put(Clip{Data: []byte("b")})
	require.NoError(t, err)
	c, err := s.Put(Clip{Data: []byte("c")})
	require.NoError(t, err)

	_, err = s.Get(a)
	require.NoError(t, err)

	_, err = s.Put(Clip{Data: []byte("d")})
	require.NoError(t, err)

	_, err = s.Get(b)
	assert.ErrorIs(t, err, ErrNotFound, "b was least recently used")
	for _, id := range []string{a, c} {
		_, err := s.Get(id)
		assert.NoError(t, err)
	}
}

func TestExpiredClipsReleaseBytes(t *testing.T) {
	s := newStore(t, Config{TTL: 20 * time.Millisecond})
	_, err := s.Put(Clip{Data: make([]byte, 512)})
	require.NoError(t, err)
	require.EqualValues(t, 512, s.Bytes())

	assert.Eventually(t, func() bool {
		return s.Bytes() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
