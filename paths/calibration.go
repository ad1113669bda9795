package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Calibration layers are internal products that follow the standard
// product layout but carry a -layer-data / -layer-meta descriptor
// suffix with a fixed extension per kind:
//
//	imap_{instrument}_{level}_{descriptor}-layer-data_{date}_v{version:03}.csv
//	imap_{instrument}_{level}_{descriptor}-layer-meta_{date}_v{version:03}.json
type CalibrationLayerHandler struct {
	Versioned

	Instrument string
	Level      string
	Descriptor string
	Kind       string // "data" or "meta"
	Date       time.Time
}

var calibrationFilenameRegex = regexp.MustCompile(
	`^imap_(?P<instrument>[a-z0-9]+)_(?P<level>l\d[a-z]?(?:-pre)?)_` +
		`(?P<descriptor>[^_]+)-layer-(?P<kind>data|meta)_(?P<date>\d{8})_` +
		`v(?P<version>\d+)\.(?P<ext>csv|json)$`)

func NewCalibrationLayerHandler(
	instrument, level, descriptor, kind string,
	date time.Time) *CalibrationLayerHandler {
	result := &CalibrationLayerHandler{
		Instrument: instrument,
		Level:      level,
		Descriptor: descriptor,
		Kind:       kind,
		Date:       date,
	}
	result.Version = 1
	return result
}

func calibrationExtension(kind string) string {
	if kind == "meta" {
		return "json"
	}
	return "csv"
}

func (self *CalibrationLayerHandler) Tag() string { return "CalibrationLayer" }

func (self *CalibrationLayerHandler) ContentDate() time.Time { return self.Date }

func (self *CalibrationLayerHandler) IndexDescriptor() string {
	return self.Descriptor + "-layer-" + self.Kind
}

func (self *CalibrationLayerHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return path.Join(
		self.Instrument, self.Level, self.Date.Format("2006/01/02")), nil
}

func (self *CalibrationLayerHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"kind", self.Kind == "data" || self.Kind == "meta"},
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_v%03d.%s",
		Mission, self.Instrument, self.Level, self.IndexDescriptor(),
		self.Date.Format(dayFormat), self.Version,
		calibrationExtension(self.Kind)), nil
}

func (self *CalibrationLayerHandler) identityPrefix() (string, error) {
	err := checkAttributes("pattern",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"kind", self.Kind == "data" || self.Kind == "meta"},
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_",
		Mission, self.Instrument, self.Level, self.IndexDescriptor(),
		self.Date.Format(dayFormat)), nil
}

func (self *CalibrationLayerHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(prefix) + `v(?P<version>\d+)\.` +
			calibrationExtension(self.Kind) + "$")
}

func (self *CalibrationLayerHandler) UnsequencedQuery() (string, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return "", err
	}

	return prefix + "v%." + calibrationExtension(self.Kind), nil
}

func CalibrationLayerHandlerFromFilename(
	filename string) (*CalibrationLayerHandler, bool) {
	groups, ok := matchGroups(calibrationFilenameRegex, baseName(filename))
	if !ok {
		return nil, false
	}

	// The extension is fixed per kind - a mismatched pairing is some
	// other convention.
	if groups["ext"] != calibrationExtension(groups["kind"]) {
		return nil, false
	}

	date, err := time.Parse(dayFormat, groups["date"])
	if err != nil {
		return nil, false
	}

	result := &CalibrationLayerHandler{
		Instrument: groups["instrument"],
		Level:      groups["level"],
		Descriptor: groups["descriptor"],
		Kind:       groups["kind"],
		Date:       date,
	}
	result.Version = atoiOrZero(groups["version"])

	return result, true
}
