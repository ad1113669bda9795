package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Raw packet captures arrive from the ground station in numbered
// chunks rather than revisions:
//
//	imap_{instrument}_l0_{descriptor}_{date}_{part}.{ext}
//
// The part index is unpadded and 1-based. Folder layout matches the
// housekeeping convention at level l0.
type HKBinaryHandler struct {
	Partitioned

	Instrument string
	Descriptor string
	Date       time.Time
	Extension  string
}

const hkBinaryLevel = "l0"

func NewHKBinaryHandler(
	instrument, descriptor string,
	date time.Time, extension string) *HKBinaryHandler {
	result := &HKBinaryHandler{
		Instrument: instrument,
		Descriptor: descriptor,
		Date:       date,
		Extension:  extension,
	}
	result.Part = 1
	return result
}

func (self *HKBinaryHandler) Tag() string { return "HKBinary" }

func (self *HKBinaryHandler) ContentDate() time.Time { return self.Date }

func (self *HKBinaryHandler) IndexDescriptor() string { return self.Descriptor }

func (self *HKBinaryHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"instrument", self.Instrument != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return path.Join(
		hkRootFolder, self.Instrument, hkBinaryLevel, self.Descriptor,
		self.Date.Format("2006/01")), nil
}

func (self *HKBinaryHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"instrument", self.Instrument != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_%d.%s",
		Mission, self.Instrument, hkBinaryLevel, self.Descriptor,
		self.Date.Format(dayFormat), self.Part, self.Extension), nil
}

func (self *HKBinaryHandler) identityPrefix() (string, error) {
	err := checkAttributes("pattern",
		attribute{"instrument", self.Instrument != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"date", !self.Date.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_%s_",
		Mission, self.Instrument, hkBinaryLevel, self.Descriptor,
		self.Date.Format(dayFormat)), nil
}

func (self *HKBinaryHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(prefix) + `(?P<part>\d+)\.` +
			regexp.QuoteMeta(self.Extension) + "$")
}

func (self *HKBinaryHandler) UnsequencedQuery() (string, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return "", err
	}

	return prefix + "%." + self.Extension, nil
}

func HKBinaryHandlerFromFilename(filename string) (*HKBinaryHandler, bool) {
	table := GetPacketTable()

	pattern, err := regexp.Compile(fmt.Sprintf(
		`^imap_(?P<instrument>[a-z0-9]+)_l0_`+
			`(?P<descriptor>(?:%s)(?:-[^_]+)?)_(?P<date>\d{8})_`+
			`(?P<part>\d+)\.(?P<ext>\w+)$`,
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

	result := &HKBinaryHandler{
		Instrument: groups["instrument"],
		Descriptor: groups["descriptor"],
		Date:       date,
		Extension:  groups["ext"],
	}
	result.Part = atoiOrZero(groups["part"])

	return result, true
}
