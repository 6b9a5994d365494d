package checkpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lvising/checkpoint"
)

// LifecycleSuite walks a store through the states an interrupted run leaves
// behind: partial trials, a rerun, and a fresh start.
type LifecycleSuite struct {
	suite.Suite
	store *checkpoint.Store
}

func (s *LifecycleSuite) SetupTest() {
	s.store = checkpoint.NewStore(filepath.Join(s.T().TempDir(), "lattice.csv"))
}

// TestOverwrite replaces a trial's rows instead of appending.
func (s *LifecycleSuite) TestOverwrite() {
	rows := sampleRows()
	require.NoError(s.T(), s.store.Save(1, rows))
	require.NoError(s.T(), s.store.Save(1, rows[:1]))

	back, err := checkpoint.Load(s.store.Path(1))
	require.NoError(s.T(), err)
	require.Equal(s.T(), rows[:1], back)
}

// TestRemoveThenScan drops one trial and keeps the rest.
func (s *LifecycleSuite) TestRemoveThenScan() {
	for trial := 0; trial < 4; trial++ {
		require.NoError(s.T(), s.store.Save(trial, sampleRows()))
	}
	require.NoError(s.T(), s.store.Remove(2))

	entries, err := s.store.Scan()
	require.NoError(s.T(), err)
	got := make([]int, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Trial)
	}
	require.Equal(s.T(), []int{0, 1, 3}, got)
}

// TestClearKeepsForeignFiles removes only this input's checkpoints.
func (s *LifecycleSuite) TestClearKeepsForeignFiles() {
	require.NoError(s.T(), s.store.Save(0, sampleRows()))
	other := checkpoint.NewStore(filepath.Join(filepath.Dir(s.store.Dir), "other.csv"))
	require.NoError(s.T(), other.Save(0, sampleRows()))

	n, err := s.store.Clear()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, n)

	_, err = os.Stat(other.Path(0))
	require.NoError(s.T(), err)
}

// TestWriteCSVMissingDir fails without leaving a partial file.
func (s *LifecycleSuite) TestWriteCSVMissingDir() {
	path := filepath.Join(s.store.Dir, "nested", "out.csv")
	require.Error(s.T(), checkpoint.WriteCSV(path, [][]string{{"a"}}))
	_, err := os.Stat(path)
	require.True(s.T(), os.IsNotExist(err))
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}
