package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Housekeeping telemetry products:
//
//	imap_{instrument}_{level}_{descriptor}_{date}_v{version:03}.{ext}
//
// stored under hk/{instrument}/{level}/{descriptor}/YYYY/MM. The
// descriptor must belong to a known packet family from the
// housekeeping packet table, which stops this handler from claiming
// files that merely look similar.
type HKHandler struct {
	Versioned

	Instrument string
	Level      string
	Descriptor string
	Date       time.Time
	Extension  string
}

const hkRootFolder = "hk"

func NewHKHandler(
	instrument, level, descriptor string,
	date time.Time, extension string) *HKHandler {
	result := &HKHandler{
		Instrument: instrument,
		Level:      level,
		Descriptor: descriptor,
		Date:       date,
		Extension:  extension,
	}
	result.Version = 1
	return result
}

func (self *HKHandler) Tag() string { return "HK" }

func (self *HKHandler) ContentDate() time.Time { return self.Date }

func (self *HKHandler) IndexDescriptor() string { return self.Descriptor }

func (self *HKHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"instrument", self.Instrument != ""},
		attribute{"level", self.Level != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return path.Join(
		hkRootFolder, self.Instrument, self.Level, self.Descriptor,
		self.Date.Format("2006/01")), nil
}

func (self *HKHandler) Filename() (string, error) {
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

func (self *HKHandler) identityPrefix() (string, error) {
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

func (self *HKHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(prefix) + `v(?P<version>\d+)\.` +
			regexp.QuoteMeta(self.Extension) + "$")
}

func (self *HKHandler) UnsequencedQuery() (string, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return "", err
	}

	return prefix + "v%." + self.Extension, nil
}

// HKHandlerFromFilename parses a filename against the housekeeping
// template, consulting the packet table for the allowed descriptor
// families.
func HKHandlerFromFilename(filename string) (*HKHandler, bool) {
	table := GetPacketTable()

	pattern, err := regexp.Compile(fmt.Sprintf(
		`^imap_(?P<instrument>[a-z0-9]+)_(?P<level>l\d)_`+
			`(?P<descriptor>(?:%s)(?:-[^_]+)?)_(?P<date>\d{8})_`+
			`v(?P<version>\d+)\.(?P<ext>\w+)$`,
		table.prefix_alternation))
	if err != nil {
		return nil, false
	}

	groups, ok := matchGroups(pattern, baseName(filename))
	if !ok {
		return nil, false
	}

	date, err := time.Parse(dayFormat, groups["date"])
	if err != nil {
		return nil, false
	}

	result := &HKHandler{
		Instrument: groups["instrument"],
		Level:      groups["level"],
		Descriptor: groups["descriptor"],
		Date:       date,
		Extension:  groups["ext"],
	}
	result.Version = atoiOrZero(groups["version"])

	return result, true
}
