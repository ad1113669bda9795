package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Standard science products follow the SPDF naming convention:
//
//	imap_{instrument}_{level}_{descriptor}_{date}_v{version:03}.{ext}
//
// stored under {instrument}/{level}/YYYY/MM/DD. The version starts
// unset (0); the datastore manager assigns the real revision on
// ingest.
type ScienceHandler struct {
	Versioned

	Instrument string
	Level      string
	Descriptor string
	Date       time.Time
	Extension  string
}

// Science descriptors always carry a norm or burst mode prefix. This
// keeps the generic product grammar from claiming housekeeping or
// calibration files whose names are superficially similar.
var scienceFilenameRegex = regexp.MustCompile(
	`^imap_(?P<instrument>[a-z0-9]+)_(?P<level>l\d[a-z]?(?:-pre)?)_` +
		`(?P<descriptor>(?:norm|burst)[^_]*)_(?P<date>\d{8})_` +
		`v(?P<version>\d+)\.(?P<ext>\w+)$`)

func NewScienceHandler(
	instrument, level, descriptor string,
	date time.Time, extension string) *ScienceHandler {
	return &ScienceHandler{
		Instrument: instrument,
		Level:      level,
		Descriptor: descriptor,
		Date:       date,
		Extension:  extension,
	}
}

func (self *ScienceHandler) Tag() string { return "Science" }

func (self *ScienceHandler) ContentDate() time.Time { return self.Date }

func (self *ScienceHandler) IndexDescriptor() string { return self.Descriptor }

func (self *ScienceHandler) FolderStructure() (string, error) {
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

func (self *ScienceHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_v%03d.%s",
		Mission, self.Instrument, self.Level, self.Descriptor,
		self.Date.Format(dayFormat), self.Version, self.Extension), nil
}

func (self *ScienceHandler) identityPrefix() (string, error) {
	err := checkAttributes("pattern",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_",
		Mission, self.Instrument, self.Level, self.Descriptor,
		self.Date.Format(dayFormat)), nil
}

func (self *ScienceHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(prefix) + `v(?P<version>\d+)\.` +
			regexp.QuoteMeta(self.Extension) + "$")
}

func (self *ScienceHandler) UnsequencedQuery() (string, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return "", err
	}

	return prefix + "v%." + self.Extension, nil
}

// ScienceHandlerFromFilename parses a bare filename against the
// standard product template. Returns false when the template does not
// apply so selection can move on to other variants.
func ScienceHandlerFromFilename(filename string) (*ScienceHandler, bool) {
	groups, ok := matchGroups(scienceFilenameRegex, baseName(filename))
	if !ok {
		return nil, false
	}

	date, err := time.Parse(dayFormat, groups["date"])
	if err != nil {
		return nil, false
	}

	result := &ScienceHandler{
		Instrument: groups["instrument"],
		Level:      groups["level"],
		Descriptor: groups["descriptor"],
		Date:       date,
		Extension:  groups["ext"],
	}
	result.Version = atoiOrZero(groups["version"])

	return result, true
}
