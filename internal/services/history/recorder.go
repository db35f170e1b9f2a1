// Package history records the total portfolio value time series.
package history

import (
	"encoding/csv"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"binfolio/internal/domain"
)

// Policy selects how the recorder treats multiple observations per day.
type Policy string

const (
	// PolicyUpsert keeps a single row per calendar day, refreshed in place.
	PolicyUpsert Policy = "upsert"
	// PolicyAppend writes one row per collection run.
	PolicyAppend Policy = "append"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var header = []string{"datetime", "total_portfolio_value_usdt"}

// CSVRecorder persists snapshots into a delimited log file. Access to the
// file is mutex-serialized so overlapping runs within one process cannot
// interleave the read-modify-write.
type CSVRecorder struct {
	path   string
	policy Policy
	mu     sync.Mutex
}

func NewCSVRecorder(path string, policy Policy) *CSVRecorder {
	if policy == "" {
		policy = PolicyUpsert
	}
	return &CSVRecorder{path: path, policy: policy}
}

// Record writes the snapshot according to the configured policy. The log is
// never modified when reading or rewriting fails.
func (r *CSVRecorder) Record(snapshot domain.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.policy == PolicyAppend {
		return r.append(snapshot)
	}
	return r.upsert(snapshot)
}

// append never rewrites existing rows, it only adds to the end of the log.
func (r *CSVRecorder) append(snapshot domain.PortfolioSnapshot) error {
	needHeader := false
	info, err := os.Stat(r.path)
	switch {
	case os.IsNotExist(err):
		needHeader = true
	case err != nil:
		return errors.Wrap(err, "failed to stat history log")
	default:
		needHeader = info.Size() == 0
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open history log")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needHeader {
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, "failed to write history header")
		}
	}
	if err := w.Write(row(snapshot)); err != nil {
		return errors.Wrap(err, "failed to append history row")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "failed to flush history log")
}

func (r *CSVRecorder) upsert(snapshot domain.PortfolioSnapshot) error {
	rows, err := r.load()
	if err != nil {
		return err
	}

	today := snapshot.Timestamp.Format(dateLayout)
	updated := false
	for i, existing := range rows {
		if len(existing) > 0 && strings.HasPrefix(existing[0], today) {
			rows[i] = row(snapshot)
			updated = true
			break
		}
	}
	if !updated {
		if len(rows) == 0 {
			rows = append(rows, header)
		}
		rows = append(rows, row(snapshot))
	}
	return r.write(rows)
}

func (r *CSVRecorder) load() ([][]string, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to open history log")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse history log")
	}
	return rows, nil
}

func (r *CSVRecorder) write(rows [][]string) error {
	file, err := os.Create(r.path)
	if err != nil {
		return errors.Wrap(err, "failed to write history log")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to flush history log")
	}
	return nil
}

func row(snapshot domain.PortfolioSnapshot) []string {
	return []string{
		snapshot.Timestamp.Format(dateTimeLayout),
		snapshot.TotalValueUSDT.String(),
	}
}
