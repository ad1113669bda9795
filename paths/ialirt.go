package paths

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// I-ALiRT snapshots are singletons: one file per day, no revisions.
//
//	imap_ialirt_{date}.{ext}
//
// stored under ialirt/YYYY/MM. Re-ingesting a snapshot overwrites in
// place.
type IALiRTHandler struct {
	Date      time.Time
	Extension string
}

var ialirtFilenameRegex = regexp.MustCompile(
	`^imap_ialirt_(?P<date>\d{8})\.(?P<ext>\w+)$`)

func NewIALiRTHandler(date time.Time) *IALiRTHandler {
	return &IALiRTHandler{
		Date:      date,
		Extension: "csv",
	}
}

func (self *IALiRTHandler) Tag() string { return "IALiRT" }

func (self *IALiRTHandler) SupportsSequencing() bool { return false }

func (self *IALiRTHandler) ContentDate() time.Time { return self.Date }

func (self *IALiRTHandler) IndexDescriptor() string { return "ialirt" }

func (self *IALiRTHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"date", !self.Date.IsZero()})
	if err != nil {
		return "", err
	}

	return path.Join("ialirt", self.Date.Format("2006/01")), nil
}

func (self *IALiRTHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"date", !self.Date.IsZero()},
		attribute{"extension", self.Extension != ""})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_ialirt_%s.%s",
		Mission, self.Date.Format(dayFormat), self.Extension), nil
}

func IALiRTHandlerFromFilename(filename string) (*IALiRTHandler, bool) {
	groups, ok := matchGroups(ialirtFilenameRegex, baseName(filename))
	if !ok {
		return nil, false
	}

	date, err := time.Parse(dayFormat, groups["date"])
	if err != nil {
		return nil, false
	}

	return &IALiRTHandler{
		Date:      date,
		Extension: groups["ext"],
	}, true
}
