package dataset

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetch downloads a zipped shapefile dataset and extracts it into destDir.
// Returns the path of the extracted .shp file.
func Fetch(ctx context.Context, httpClient *http.Client, url, destDir string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log := zap.L().With(zap.String("component", "dataset.fetch"))

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "dataset: create dir %s", destDir)
	}

	zipPath := filepath.Join(destDir, "centerline.zip")
	log.Info("downloading dataset", zap.String("url", url))

	if err := downloadFile(ctx, httpClient, url, zipPath); err != nil {
		return "", eris.Wrap(err, "dataset: download")
	}

	if err := extractZIP(zipPath, destDir); err != nil {
		return "", eris.Wrap(err, "dataset: extract")
	}

	shpPath, err := resolveShapefile(destDir)
	if err != nil {
		return "", err
	}

	log.Info("dataset extracted", zap.String("shapefile", shpPath))
	return shpPath, nil
}

// sidecarExts are the zip entries worth extracting from a centerline
// archive. Portals bundle metadata files (xml, html, csv) alongside the
// shapefile; those stay in the archive.
var sidecarExts = map[string]bool{
	".shp": true,
	".shx": true,
	".dbf": true,
	".prj": true,
	".cpg": true,
}

// maxEntryBytes caps a single extracted entry. Citywide centerline exports
// run tens of MB; anything past this is a corrupt or hostile archive.
const maxEntryBytes = 2 << 30

// downloadFile downloads a URL to a local file.
func downloadFile(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return eris.Wrap(err, "write file")
	}
	return eris.Wrap(f.Close(), "close file")
}

// extractZIP pulls the shapefile sidecars out of the archive, flattened into
// destDir so nested export/ folders collapse away.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	var extracted int
	for _, f := range r.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || !sidecarExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		if err := extractEntry(f, filepath.Join(destDir, name)); err != nil {
			return err
		}
		extracted++
	}

	if extracted == 0 {
		return eris.Errorf("no shapefile entries in %s", zipPath)
	}
	return nil
}

func extractEntry(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "open zip entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	outFile, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "create %s", destPath)
	}

	n, err := io.Copy(outFile, io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		_ = outFile.Close()
		return eris.Wrapf(err, "extract %s", f.Name)
	}
	if n > maxEntryBytes {
		_ = outFile.Close()
		return eris.Errorf("zip entry %s exceeds size limit", f.Name)
	}
	return eris.Wrapf(outFile.Close(), "close %s", destPath)
}
