package election

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/civicgive/compliance-cli/internal/model"
)

// snapshotFile is the on-disk JSON shape published by the data team.
type snapshotFile struct {
	ElectionYear int                      `json:"electionYear"`
	Dates        map[string]snapshotEntry `json:"dates"`
}

type snapshotEntry struct {
	Primary *string `json:"primary"`
	General string  `json:"general"`
}

// SnapshotSource resolves election dates from a JSON snapshot file
// keyed by (electionYear, state). The file is read once per process;
// a read or parse failure makes the source report misses with the
// error surfaced to the resolver for logging.
type SnapshotSource struct {
	path string

	once     sync.Once
	snapshot *snapshotFile
	loadErr  error
}

// NewSnapshotSource creates a SnapshotSource reading from path.
func NewSnapshotSource(path string) *SnapshotSource {
	return &SnapshotSource{path: path}
}

// Name implements Source.
func (s *SnapshotSource) Name() string { return "snapshot" }

// Available implements Source.
func (s *SnapshotSource) Available() bool { return s.path != "" }

// Resolve implements Source. A year mismatch or missing state is a
// miss, not an error.
func (s *SnapshotSource) Resolve(_ context.Context, state string, year int) (*model.ElectionDates, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	if s.snapshot.ElectionYear != year {
		return nil, nil
	}
	entry, ok := s.snapshot.Dates[strings.ToUpper(state)]
	if !ok {
		return nil, nil
	}

	general, err := parseISODate(entry.General)
	if err != nil {
		return nil, eris.Wrapf(err, "election: snapshot general date for %s", state)
	}

	dates := &model.ElectionDates{State: strings.ToUpper(state), General: general}
	if entry.Primary != nil {
		primary, err := parseISODate(*entry.Primary)
		if err != nil {
			return nil, eris.Wrapf(err, "election: snapshot primary date for %s", state)
		}
		dates.Primary = &primary
	}
	return dates, nil
}

func (s *SnapshotSource) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.loadErr = eris.Wrap(err, "election: read snapshot")
		return
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		s.loadErr = eris.Wrap(err, "election: parse snapshot")
		return
	}
	s.snapshot = &snap
}

var _ Source = (*SnapshotSource)(nil)
