package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
// Reports are append-only; a secondary date index enables range and
// recency queries without scanning every record.
type ReportRepository struct {
	backend *Backend
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(backend *Backend) (*ReportRepository, error) {
	return &ReportRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ReportRepository has no resources to release.
func (r *ReportRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ReportRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendReport stores a quality report along with its date index entry.
// A repeated (query, response) pair replaces its previous entry rather
// than accumulating duplicates.
func (r *ReportRepository) AppendReport(ctx context.Context, report *core.QualityReport) (*core.QualityReport, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := core.ValidateQualityReport(report); err != nil {
			return err
		}
		if report.CreatedAt.IsZero() {
			report.CreatedAt = time.Now().UTC()
		}
		if report.Id == 0 {
			report.Id = core.ReportIDFor(report.Query, report.Response)
		}

		// Drop the previous date index entry on overwrite.
		key := makeReportKey(report.Id)
		if item, err := tx.Get(key); err == nil {
			var old *core.QualityReport
			if err := item.Value(func(val []byte) error {
				var err error
				old, err = storage.UnmarshalQualityReport(val)
				return err
			}); err != nil {
				return err
			}
			if err := tx.Delete(makeReportDateKey(old.CreatedAt, old.Id)); err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Set(key, storage.MarshalQualityReport(report)); err != nil {
			return err
		}
		if err := tx.Set(makeReportDateKey(report.CreatedAt, report.Id), storage.MarshalID(report.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetReportsByDateRange retrieves reports created within [start, end),
// oldest first.
func (r *ReportRepository) GetReportsByDateRange(ctx context.Context, start, end time.Time) ([]*core.QualityReport, error) {
	var results []*core.QualityReport
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		from := makePartialReportDateKey(start)
		upper := makePartialReportDateKey(end)

		for iter.Seek(from); iter.Valid(); iter.Next() {
			if bytes.Compare(iter.Item().Key(), upper) >= 0 {
				break
			}
			report, err := r.readReportFromIndex(tx, iter.Item())
			if err != nil {
				return err
			}
			if report != nil {
				results = append(results, report)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentReports retrieves the most recent reports, newest first.
func (r *ReportRepository) GetRecentReports(ctx context.Context, limit int) ([]*core.QualityReport, error) {
	var results []*core.QualityReport
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(reportDatePrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the prefix range so the reverse
		// iterator lands on the newest entry.
		seek := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(seek); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			report, err := r.readReportFromIndex(tx, iter.Item())
			if err != nil {
				return err
			}
			if report != nil {
				results = append(results, report)
			}
		}
		return nil
	}, false)

	return results, err
}

func (r *ReportRepository) readReportFromIndex(tx *badger.Txn, item *badger.Item) (*core.QualityReport, error) {
	var reportID core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		reportID, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	recItem, err := tx.Get(makeReportKey(reportID))
	if err == badger.ErrKeyNotFound {
		// Dangling index entry, skip it.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report *core.QualityReport
	err = recItem.Value(func(val []byte) error {
		var err error
		report, err = storage.UnmarshalQualityReport(val)
		return err
	})
	return report, err
}
