package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Candidate attribute names, checked case-insensitively. NYC Open Data
// centerline exports use lowercased DBF field names (physicalid, st_name,
// full_stree); TIGER edges use FULLNAME/TLID.
var (
	idFields   = []string{"physicalid", "objectid", "tlid", "id"}
	nameFields = []string{"full_stree", "st_name", "stname", "fullname", "street"}
)

// requiredExts are the shapefile sidecars that must be present and readable
// before a load is attempted. The .prj is required even though geometry and
// attributes never touch it: a missing projection file usually means a
// truncated download.
var requiredExts = []string{".shp", ".shx", ".dbf", ".prj"}

// Load reads a street centerline shapefile into memory. Path may be a .shp
// file or a directory containing exactly one.
func Load(path string) (*Collection, error) {
	shpPath, err := resolveShapefile(path)
	if err != nil {
		return nil, err
	}

	if err := CheckSidecars(shpPath); err != nil {
		return nil, err
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	idIdx := firstFieldIndex(fieldIdx, idFields)
	nameIdx := firstFieldIndex(fieldIdx, nameFields)

	var records []Centerline
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		pl, ok := shape.(*shp.PolyLine)
		if !ok || pl == nil {
			skipped++
			continue
		}

		mls := polyLineToMultiLineString(pl)
		if mls == nil {
			skipped++
			continue
		}

		rec := Centerline{Geom: mls}
		if idIdx >= 0 {
			rec.ID = attribute(reader, idIdx)
		}
		if nameIdx >= 0 {
			rec.Street = attribute(reader, nameIdx)
		}
		if rec.Street == "" {
			rec.Street = "Unknown Street"
		}

		records = append(records, rec)
	}

	if skipped > 0 {
		zap.L().Debug("dataset: skipped records without line geometry",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	if len(records) == 0 {
		return nil, eris.Errorf("dataset: %s contains no centerline records", shpPath)
	}

	zap.L().Info("dataset loaded",
		zap.String("path", shpPath),
		zap.Int("records", len(records)),
	)

	return &Collection{Centerlines: records, Path: shpPath}, nil
}

// CheckSidecars verifies the .shp, .shx and .dbf files all exist and are
// readable. go-shp reports missing sidecars lazily; failing up front gives a
// clearer dataset-unavailable error.
func CheckSidecars(shpPath string) error {
	base := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	for _, ext := range requiredExts {
		p := base + ext
		f, err := os.Open(p)
		if err != nil {
			return eris.Wrapf(err, "dataset: required file %s", p)
		}
		_ = f.Close()
	}
	return nil
}

// resolveShapefile accepts a .shp path directly or searches a directory for one.
func resolveShapefile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", eris.Wrapf(err, "dataset: stat %s", path)
	}

	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", eris.Wrapf(err, "dataset: read directory %s", path)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".shp") {
			return filepath.Join(path, e.Name()), nil
		}
	}
	return "", eris.Errorf("dataset: no .shp file found in %s", path)
}

// firstFieldIndex returns the index of the first candidate present, or -1.
func firstFieldIndex(fieldIdx map[string]int, candidates []string) int {
	for _, c := range candidates {
		if idx, ok := fieldIdx[c]; ok {
			return idx
		}
	}
	return -1
}

// attribute reads and trims one DBF attribute for the current record.
func attribute(reader *shp.Reader, field int) string {
	val := strings.TrimRight(reader.Attribute(field), "\x00")
	return strings.TrimSpace(val)
}

// polyLineToMultiLineString converts a shapefile PolyLine to a
// geom.MultiLineString. Returns nil when no valid part survives.
func polyLineToMultiLineString(pl *shp.PolyLine) *geom.MultiLineString {
	if pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY).SetSRID(4326)

	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		var end int32
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		} else {
			end = int32(len(pl.Points))
		}
		if end-start < 2 {
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, pl.Points[j].X, pl.Points[j].Y)
		}

		ls := geom.NewLineStringFlat(geom.XY, flat)
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("dataset: skipping malformed linestring part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}
