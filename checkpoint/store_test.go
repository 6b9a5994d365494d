package checkpoint_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvising/checkpoint"
	"github.com/katalvlaran/lvising/simerr"
)

func sampleRows() []checkpoint.Row {
	return []checkpoint.Row{
		{Temperature: 0.5, AvgMag: 0.9, AvgMag2: 0.81, AvgMag4: 0.6561, Chi0: complex(3.24, 0), Chiq: complex(0.1, -1e-17)},
		{Temperature: 0.6, AvgMag: 1.0 / 3, AvgMag2: 0.2, AvgMag4: 0.05, Chi0: complex(0.8, 0), Chiq: complex(0.4, 0.0)},
	}
}

func TestNewStore_Paths(t *testing.T) {
	s := checkpoint.NewStore(filepath.Join("data", "square.csv"))
	assert.Equal(t, filepath.Join("data", "temp"), s.Dir)
	assert.Equal(t, "square.csv", s.Base)
	assert.Equal(t, filepath.Join("data", "temp", "12square.csv"), s.Path(12))
}

// TestSaveLoad reproduces rows exactly, including awkward floats.
func TestSaveLoad(t *testing.T) {
	s := checkpoint.NewStore(filepath.Join(t.TempDir(), "h.csv"))
	rows := sampleRows()
	require.NoError(t, s.Save(3, rows))

	raw, err := os.ReadFile(s.Path(3))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), strings.Join(checkpoint.Header, ",")+"\n"))

	back, err := checkpoint.Load(s.Path(3))
	require.NoError(t, err)
	require.Equal(t, rows, back)
}

// TestScan matches only <digits><basename>, sorted by trial.
func TestScan(t *testing.T) {
	dir := t.TempDir()
	s := checkpoint.NewStore(filepath.Join(dir, "h.csv"))

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Empty(t, entries, "missing directory")

	for _, trial := range []int{10, 2, 0} {
		require.NoError(t, s.Save(trial, sampleRows()))
	}
	for _, name := range []string{"h.csv", "x3h.csv", "4other.csv", "5h.csv.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir, name), []byte("x"), 0o644))
	}

	entries, err = s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{0, 2, 10}, []int{entries[0].Trial, entries[1].Trial, entries[2].Trial})
	assert.Equal(t, s.Path(10), entries[2].Path)

	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	entries, err = s.Scan()
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, s.Remove(99))
}

// TestRead_Integrity rejects short rows and non-numeric fields.
func TestRead_Integrity(t *testing.T) {
	_, err := checkpoint.Read(strings.NewReader("temperature,avg_mag\n0.5,0.1,0.2\n"))
	require.ErrorIs(t, err, checkpoint.ErrRowFields)
	require.ErrorIs(t, err, simerr.ErrDataIntegrity)

	_, err = checkpoint.Read(strings.NewReader("0.5,0.1,0.2,0.3,1,0,1,zz\n"))
	require.ErrorIs(t, err, checkpoint.ErrMalformed)

	rows, err := checkpoint.Read(strings.NewReader("0.5, 0.1, 0.2, 0.3, 1, 0, 1, 0\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, complex(1, 0), rows[0].Chi0)

	rows, err = checkpoint.Read(strings.NewReader(strings.Join(checkpoint.Header, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestSave_Concurrent writes many trials from many goroutines.
func TestSave_Concurrent(t *testing.T) {
	s := checkpoint.NewStore(filepath.Join(t.TempDir(), "h.csv"))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			assert.NoError(t, s.Save(trial, sampleRows()))
		}(i)
	}
	wg.Wait()

	entries, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 16)
	leftovers, _ := filepath.Glob(filepath.Join(s.Dir, ".lvising-*"))
	assert.Empty(t, leftovers)
}
