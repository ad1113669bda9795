package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// Quick-look plots cover a date range and carry no revisions:
//
//	imap_quicklook_{plot_type}_{start}_{end}.{ext}
//
// stored under quicklook/{plot_type}/YYYY/MM, partitioned by the
// start of the covered range.
type QuicklookHandler struct {
	PlotType  string
	StartDate time.Time
	EndDate   time.Time
	Extension string
}

var quicklookFilenameRegex = regexp.MustCompile(
	`^imap_quicklook_(?P<plot>[a-z0-9-]+)_(?P<start>\d{8})_` +
		`(?P<end>\d{8})\.(?P<ext>\w+)$`)

func NewQuicklookHandler(
	plot_type string, start_date, end_date time.Time) *QuicklookHandler {
	return &QuicklookHandler{
		PlotType:  plot_type,
		StartDate: start_date,
		EndDate:   end_date,
		Extension: "png",
	}
}

func (self *QuicklookHandler) Tag() string { return "Quicklook" }

func (self *QuicklookHandler) SupportsSequencing() bool { return false }

func (self *QuicklookHandler) ContentDate() time.Time { return self.StartDate }

func (self *QuicklookHandler) IndexDescriptor() string {
	return "quicklook-" + self.PlotType
}

func (self *QuicklookHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"plot type", self.PlotType != ""},
		attribute{"start date", !self.StartDate.IsZero()})
	if err != nil {
		return "", err
	}

	return path.Join(
		"quicklook", self.PlotType, self.StartDate.Format("2006/01")), nil
}

func (self *QuicklookHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"plot type", self.PlotType != ""},
		attribute{"start date", !self.StartDate.IsZero()},
		attribute{"end date", !self.EndDate.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_quicklook_%s_%s_%s.%s",
		Mission, self.PlotType,
		self.StartDate.Format(dayFormat), self.EndDate.Format(dayFormat),
		self.Extension), nil
}

func QuicklookHandlerFromFilename(filename string) (*QuicklookHandler, bool) {
	groups, ok := matchGroups(quicklookFilenameRegex, baseName(filename))
	if !ok {
		return nil, false
	}

	start_date, err := time.Parse(dayFormat, groups["start"])
	if err != nil {
		return nil, false
	}

	end_date, err := time.Parse(dayFormat, groups["end"])
	if err != nil {
		return nil, false
	}

	return &QuicklookHandler{
		PlotType:  groups["plot"],
		StartDate: start_date,
		EndDate:   end_date,
		Extension: groups["ext"],
	}, true
}
