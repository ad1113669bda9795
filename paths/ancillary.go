package paths

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// Ancillary products (calibration tables, offsets) are valid over a
// date range rather than a single day:
//
//	imap_{instrument}_{descriptor}_{start}[_{end}]_v{version:03}.{ext}
//
// Each descriptor maps to a fixed subfolder under ancillary/; offsets
// are additionally partitioned by month since they accumulate over
// the mission.
type AncillaryHandler struct {
	Versioned

	Instrument string
	Descriptor string
	StartDate  time.Time
	EndDate    time.Time // zero when validity is a single day
	Extension  string
}

var ancillaryFilenameRegex = regexp.MustCompile(
	`^imap_(?P<instrument>[a-z0-9]+)_` +
		`(?P<descriptor>[^_]+(?:-calibration|-offsets))_(?P<start>\d{8})` +
		`(?:_(?P<end>\d{8}))?_v(?P<version>\d+)\.(?P<ext>\w+)$`)

func NewAncillaryHandler(
	instrument, descriptor string,
	start_date, end_date time.Time, extension string) *AncillaryHandler {
	result := &AncillaryHandler{
		Instrument: instrument,
		Descriptor: descriptor,
		StartDate:  start_date,
		EndDate:    end_date,
		Extension:  extension,
	}
	result.Version = 1
	return result
}

func (self *AncillaryHandler) Tag() string { return "Ancillary" }

func (self *AncillaryHandler) ContentDate() time.Time { return self.StartDate }

func (self *AncillaryHandler) IndexDescriptor() string { return self.Descriptor }

func (self *AncillaryHandler) subFolder() (string, error) {
	switch self.Descriptor {
	case "ialirt-calibration":
		return "ialirt", nil
	case "l1b-calibration":
		return "l1b", nil
	case "l1d-calibration":
		return "l1d", nil
	case "l2-calibration":
		return "l2-rotation", nil
	}

	if strings.HasSuffix(self.Descriptor, "-offsets") {
		return path.Join("l2-offsets", self.StartDate.Format("2006/01")), nil
	}

	return "", fmt.Errorf(
		"unknown descriptor %q for ancillary files", self.Descriptor)
}

func (self *AncillaryHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"start date", !self.StartDate.IsZero()})
	if err != nil {
		return "", err
	}

	sub_folder, err := self.subFolder()
	if err != nil {
		return "", err
	}

	return path.Join("ancillary", sub_folder), nil
}

func (self *AncillaryHandler) validityRange() string {
	if self.EndDate.IsZero() {
		return self.StartDate.Format(dayFormat)
	}
	return self.StartDate.Format(dayFormat) + "_" + self.EndDate.Format(dayFormat)
}

func (self *AncillaryHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"instrument", self.Instrument != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"start date", !self.StartDate.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_v%03d.%s",
		Mission, self.Instrument, self.Descriptor, self.validityRange(),
		self.Version, self.Extension), nil
}

func (self *AncillaryHandler) identityPrefix() (string, error) {
	err := checkAttributes("pattern",
		attribute{"instrument", self.Instrument != ""},
		attribute{"descriptor", self.Descriptor != ""},
		attribute{"start date", !self.StartDate.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%s_%s_%s_",
		Mission, self.Instrument, self.Descriptor, self.validityRange()), nil
}

func (self *AncillaryHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(prefix) + `v(?P<version>\d+)\.` +
			regexp.QuoteMeta(self.Extension) + "$")
}

func (self *AncillaryHandler) UnsequencedQuery() (string, error) {
	prefix, err := self.identityPrefix()
	if err != nil {
		return "", err
	}

	return prefix + "v%." + self.Extension, nil
}

func AncillaryHandlerFromFilename(filename string) (*AncillaryHandler, bool) {
	groups, ok := matchGroups(ancillaryFilenameRegex, baseName(filename))
	if !ok {
		return nil, false
	}

	start_date, err := time.Parse(dayFormat, groups["start"])
	if err != nil {
		return nil, false
	}

	var end_date time.Time
	if groups["end"] != "" {
		end_date, err = time.Parse(dayFormat, groups["end"])
		if err != nil {
			return nil, false
		}
	}

	result := &AncillaryHandler{
		Instrument: groups["instrument"],
		Descriptor: groups["descriptor"],
		StartDate:  start_date,
		EndDate:    end_date,
		Extension:  groups["ext"],
	}
	result.Version = atoiOrZero(groups["version"])

	return result, true
}
