package bluebikes

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/rmrobinson/bikeflow/services/traffic"
	"go.uber.org/zap"
)

var (
	// ErrUnknownFileName is returned if an archive does not contain a trip CSV.
	ErrUnknownFileName = errors.New("no csv file found in archive")
	// ErrUnexpectedStatus is returned if a remote file could not be retrieved.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// Dataset loads the Bluebikes station roster and trip history from local paths or URLs.
// Trip history may be a plain CSV file or a zip archive containing one, as published monthly.
type Dataset struct {
	logger   *zap.Logger
	location *time.Location

	stationsPath string
	tripsPath    string
}

// NewDataset creates a new dataset reading the supplied paths.
// Trip timestamps without an offset are interpreted in location.
func NewDataset(logger *zap.Logger, location *time.Location, stationsPath, tripsPath string) *Dataset {
	return &Dataset{
		logger:       logger,
		location:     location,
		stationsPath: stationsPath,
		tripsPath:    tripsPath,
	}
}

// LoadStations retrieves and parses the station roster.
func (ds *Dataset) LoadStations(ctx context.Context) ([]*traffic.Station, error) {
	body, err := ds.read(ctx, ds.stationsPath)
	if err != nil {
		return nil, err
	}

	warnings := traffic.NewWarningAggregator()
	stations, err := ParseStations(bytes.NewReader(body), warnings)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", ds.stationsPath)
	}
	warnings.LogAll(ds.logger)

	ds.logger.Info("loaded stations",
		zap.String("path", ds.stationsPath),
		zap.Int("count", len(stations)),
	)
	return stations, nil
}

// LoadTrips retrieves and parses the trip history.
func (ds *Dataset) LoadTrips(ctx context.Context) ([]*traffic.Trip, error) {
	body, err := ds.read(ctx, ds.tripsPath)
	if err != nil {
		return nil, err
	}

	var trips []*traffic.Trip
	if isZip(ds.tripsPath) {
		trips, err = ds.parseZippedTrips(body)
	} else {
		trips, err = parseTrips(bytes.NewReader(body), ds.location, tripIDPrefix(ds.tripsPath))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", ds.tripsPath)
	}

	ds.logger.Info("loaded trips",
		zap.String("path", ds.tripsPath),
		zap.Int("count", len(trips)),
	)
	return trips, nil
}

func (ds *Dataset) parseZippedTrips(body []byte) ([]*traffic.Trip, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}

	for _, zipFile := range zipReader.File {
		if zipFile.FileInfo().IsDir() ||
			strings.HasPrefix(zipFile.Name, "__MACOSX") ||
			!strings.EqualFold(filepath.Ext(zipFile.Name), ".csv") {
			ds.logger.Debug("skipping zipped file",
				zap.String("file_name", zipFile.Name),
			)
			continue
		}

		return ds.parseZippedCSVFile(zipFile)
	}
	return nil, ErrUnknownFileName
}

func (ds *Dataset) parseZippedCSVFile(zf *zip.File) ([]*traffic.Trip, error) {
	f, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseTrips(f, ds.location, tripIDPrefix(zf.Name))
}

// tripIDPrefix names synthetic ride IDs after the source file, e.g. "202403-tripdata-row".
func tripIDPrefix(path string) string {
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-" + defaultTripIDPrefix
}

func (ds *Dataset) read(ctx context.Context, path string) ([]byte, error) {
	if isURL(path) {
		return getPath(ctx, path)
	}

	body, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return body, nil
}

func getPath(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	client := http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "fetching %s: %d", path, resp.StatusCode)
	}

	return ioutil.ReadAll(resp.Body)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isZip(path string) bool {
	if isURL(path) {
		if idx := strings.IndexAny(path, "?#"); idx >= 0 {
			path = path[:idx]
		}
	}
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func tripCSVReader(in io.Reader) gocsv.CSVReader {
	csvReader := csv.NewReader(in)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	return csvReader
}
