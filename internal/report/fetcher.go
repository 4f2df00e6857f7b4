// Package report runs a FatTail saved report, waits for the job, downloads
// the CSV and parses it into a Dataset.
package report

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// Service is the subset of the FatTail API needed to run a report.
type Service interface {
	GetSavedReportList(ctx context.Context) ([]fattail.SavedReport, error)
	GetSavedReportQuery(ctx context.Context, savedReportID int) (fattail.ReportQuery, error)
	RunReportJob(ctx context.Context, query fattail.ReportQuery) (int, error)
	GetReportJob(ctx context.Context, jobID int) (fattail.ReportJob, error)
	GetReportDownloadURL(ctx context.Context, jobID int) (string, error)
}

// Options configures a Fetcher.
type Options struct {
	// Dir receives downloaded reports as <SavedReportID>.csv.
	Dir string
	// KeepDir leaves Dir in place on Cleanup; only the CSV files are removed.
	KeepDir bool
	// PollInterval is the wait before each job status check.
	PollInterval time.Duration
	// Timeout bounds the total wait for the job to finish.
	Timeout time.Duration
	// RequiredColumns are validated against the header.
	RequiredColumns []string
	// HTTPClient downloads the finished report.
	HTTPClient *http.Client
}

// Fetcher acquires report datasets.
type Fetcher struct {
	svc  Service
	opts Options
	http *http.Client
}

// NewFetcher creates a Fetcher. Zero options take their defaults.
func NewFetcher(svc Service, opts Options) *Fetcher {
	if opts.Dir == "" {
		opts.Dir = constants.DefaultTmpDir
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = constants.DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultReportTimeout
	}
	if opts.RequiredColumns == nil {
		opts.RequiredColumns = RequiredColumns
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Fetcher{svc: svc, opts: opts, http: hc}
}

// Dir returns the download directory.
func (f *Fetcher) Dir() string {
	return f.opts.Dir
}

// Reports lists the saved reports.
func (f *Fetcher) Reports(ctx context.Context) ([]fattail.SavedReport, error) {
	return f.svc.GetSavedReportList(ctx)
}

// Find returns the saved report with exactly this name.
func (f *Fetcher) Find(ctx context.Context, name string) (fattail.SavedReport, error) {
	reports, err := f.svc.GetSavedReportList(ctx)
	if err != nil {
		return fattail.SavedReport{}, err
	}
	for _, r := range reports {
		if r.Name == name {
			return r, nil
		}
	}
	return fattail.SavedReport{}, &errors.ReportNotFoundError{Name: name, Available: len(reports)}
}

// Fetch runs the saved report called name and returns its parsed rows.
func (f *Fetcher) Fetch(ctx context.Context, name string) (*Dataset, error) {
	logger := logging.FromContext(ctx)

	saved, err := f.Find(ctx, name)
	if err != nil {
		return nil, err
	}

	query, err := f.svc.GetSavedReportQuery(ctx, saved.SavedReportID)
	if err != nil {
		return nil, err
	}

	jobID, err := f.svc.RunReportJob(ctx, query)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("saved_report_id", saved.SavedReportID).Int("job_id", jobID).Msg("Report job started")

	waited, err := f.wait(ctx, jobID)
	if err != nil {
		return nil, err
	}

	url, err := f.svc.GetReportDownloadURL(ctx, jobID)
	if err != nil {
		return nil, err
	}

	path, err := f.download(ctx, url, saved.SavedReportID)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Dur("waited", waited).Msg("Report downloaded")

	ds, err := ParseFile(path, f.opts.RequiredColumns)
	if err != nil {
		return nil, err
	}
	ds.Report = saved
	ds.Waited = waited
	return ds, nil
}

// wait polls the job until its status is done. No call is made once the
// timeout has elapsed.
func (f *Fetcher) wait(ctx context.Context, jobID int) (time.Duration, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()
	lastStatus := ""

	timer := time.NewTimer(f.opts.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return time.Since(start), ctx.Err()
		case <-timer.C:
		}

		elapsed := time.Since(start)
		if elapsed > f.opts.Timeout {
			return elapsed, &errors.ReportTimeoutError{
				JobID:      strconv.Itoa(jobID),
				LastStatus: lastStatus,
				Elapsed:    elapsed,
				Timeout:    f.opts.Timeout,
			}
		}

		job, err := f.svc.GetReportJob(ctx, jobID)
		if err != nil {
			return time.Since(start), err
		}
		lastStatus = job.Status
		logger.Debug().Int("job_id", jobID).Str("status", job.Status).Msg("Report job status")

		if strings.EqualFold(strings.TrimSpace(job.Status), constants.JobStatusDone) {
			return time.Since(start), nil
		}
		timer.Reset(f.opts.PollInterval)
	}
}

// download streams url into <dir>/<savedReportID>.csv through a temp file.
func (f *Fetcher) download(ctx context.Context, url string, savedReportID int) (string, error) {
	if err := os.MkdirAll(f.opts.Dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", f.opts.Dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.WrapResource("create", "request", "download", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return "", errors.WrapIO("download", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewAPIError(fattail.System, "download", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	tmp, err := os.CreateTemp(f.opts.Dir, "report-*.tmp")
	if err != nil {
		return "", errors.WrapIO("create", f.opts.Dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return "", errors.WrapIO("download", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.WrapIO("write", tmpPath, err)
	}

	path := filepath.Join(f.opts.Dir, strconv.Itoa(savedReportID)+".csv")
	if err := os.Rename(tmpPath, path); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}

// Cleanup removes downloaded reports, then the directory unless KeepDir is set.
func (f *Fetcher) Cleanup() error {
	matches, err := filepath.Glob(filepath.Join(f.opts.Dir, "*.csv"))
	if err != nil {
		return errors.WrapIO("delete", f.opts.Dir, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return errors.WrapIO("delete", m, err)
		}
	}
	if f.opts.KeepDir {
		return nil
	}
	if err := os.Remove(f.opts.Dir); err != nil && !os.IsNotExist(err) {
		return errors.WrapIO("delete", f.opts.Dir, err)
	}
	return nil
}
