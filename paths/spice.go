package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// SPICE kernels are named by external producers and their opaque
// names are passed through unchanged. Identity attributes (kernel
// family, version) are extracted by a KernelValidator rather than a
// single filename grammar, since the flight dynamics products follow
// a dozen distinct conventions. Stored under spice/{kernel_folder},
// optionally partitioned by month when a content date is known.
type SpiceHandler struct {
	Versioned

	KernelFolder string
	Name         string
	Date         time.Time

	// Only kernels carrying a _v### marker in the name are
	// sequenced; the rest are replaced wholesale by the producer.
	Sequenced bool
}

// KernelInfo is the decomposed identity of an opaque kernel name.
type KernelInfo struct {
	KernelFolder string
	Version      int
	HasVersion   bool
}

// KernelValidator decides whether an opaque name is a recognized
// kernel and decomposes it. The SDC validation service implements
// this in production; PatternKernelValidator is the built in
// fallback.
type KernelValidator interface {
	Validate(filename string) (*KernelInfo, bool)
}

var spiceVersionRegex = regexp.MustCompile(`_v(\d{3,})\.`)

// PatternKernelValidator recognizes the expected SDC kernel list by
// filename shape alone.
type PatternKernelValidator struct{}

var kernelPatterns = []struct {
	pattern *regexp.Regexp
	folder  string
}{
	{regexp.MustCompile(`^de\d+.*\.bsp$`), "spk"},
	{regexp.MustCompile(`^L1_de.*\.bsp$`), "spk"},
	{regexp.MustCompile(`^naif.*\.tls$`), "lsk"},
	{regexp.MustCompile(`^pck.*\.tpc$`), "pck"},
	{regexp.MustCompile(`^earth_.*\.bpc$`), "bpc"},
	{regexp.MustCompile(`^imap_.*\.ah\.(bc|a)$`), "ck"},
	{regexp.MustCompile(`^imap_.*\.ap\.(bc|a)$`), "ck"},
	{regexp.MustCompile(`^imap_dps_.*\.ah\.bc$`), "ck"},
	{regexp.MustCompile(`^imap_.*\.spice\.mk$`), "mk"},
	{regexp.MustCompile(`^imap_.*\.stk_a\.mk$`), "mk"},
	{regexp.MustCompile(`^imap_.*\.spin\.csv$`), "spin"},
	{regexp.MustCompile(`^imap_.*\.repoint\.csv$`), "repoint"},
	{regexp.MustCompile(`^IMAP_.*\.mk$`), "mk"},
	{regexp.MustCompile(`^imap_(launch|nom|recon|pred|noburn|long)_.*\.bsp$`), "spk"},
	{regexp.MustCompile(`^imap_.*\.sff$`), "activities"},
	{regexp.MustCompile(`^imap_science_.*\.tf$`), "fk"},
	{regexp.MustCompile(`^imap_.*\.tf$`), "fk"},
	{regexp.MustCompile(`^imap_sclk_.*\.tsc$`), "sclk"},
	{regexp.MustCompile(`^imap_mag_metakernel_.*\.tm$`), "mk"},
}

func (self PatternKernelValidator) Validate(filename string) (*KernelInfo, bool) {
	for _, item := range kernelPatterns {
		if !item.pattern.MatchString(filename) {
			continue
		}

		result := &KernelInfo{KernelFolder: item.folder}

		match := spiceVersionRegex.FindStringSubmatch(filename)
		if match != nil {
			result.HasVersion = true
			result.Version = atoiOrZero(match[1])
		}

		return result, true
	}

	return nil, false
}

func (self *SpiceHandler) Tag() string { return "Spice" }

func (self *SpiceHandler) SupportsSequencing() bool { return self.Sequenced }

func (self *SpiceHandler) ContentDate() time.Time { return self.Date }

func (self *SpiceHandler) IndexDescriptor() string {
	return "spice-" + self.KernelFolder
}

func (self *SpiceHandler) FolderStructure() (string, error) {
	err := checkAttributes("folder structure",
		attribute{"kernel folder", self.KernelFolder != ""})
	if err != nil {
		return "", err
	}

	if self.Date.IsZero() {
		return path.Join("spice", self.KernelFolder), nil
	}

	return path.Join(
		"spice", self.KernelFolder, self.Date.Format("2006/01")), nil
}

func (self *SpiceHandler) Filename() (string, error) {
	err := checkAttributes("file name",
		attribute{"filename", self.Name != ""})
	if err != nil {
		return "", err
	}

	return self.Name, nil
}

// The version marker is embedded in the opaque name, so sequence
// updates have to rewrite it.
func (self *SpiceHandler) SetSequence(sequence int) {
	self.Versioned.SetSequence(sequence)
	self.regenerateName()
}

func (self *SpiceHandler) IncreaseSequence() {
	self.Versioned.IncreaseSequence()
	self.regenerateName()
}

func (self *SpiceHandler) regenerateName() {
	if self.Name == "" {
		return
	}

	self.Name = spiceVersionRegex.ReplaceAllString(
		self.Name, fmt.Sprintf("_v%03d.", self.Version))
}

// splitVersionedName splits the opaque name around the version
// marker.
func (self *SpiceHandler) splitVersionedName() (base, rest string, err error) {
	loc := spiceVersionRegex.FindStringIndex(self.Name)
	if loc == nil {
		return "", "", fmt.Errorf(
			"kernel %q does not carry a version marker", self.Name)
	}

	// rest includes everything after the marker's trailing dot, e.g.
	// "ah.bc" for "imap_dps_2025_281_2025_286_v001.ah.bc".
	return self.Name[:loc[0]], self.Name[loc[1]:], nil
}

func (self *SpiceHandler) UnsequencedPattern() (*regexp.Regexp, error) {
	if !self.Sequenced {
		return nil, fmt.Errorf(
			"kernel %q is not versioned, no unsequenced pattern available",
			self.Name)
	}

	err := checkAttributes("pattern", attribute{"filename", self.Name != ""})
	if err != nil {
		return nil, err
	}

	base, rest, err := self.splitVersionedName()
	if err != nil {
		return nil, err
	}

	return regexp.Compile(
		"^" + regexp.QuoteMeta(base) + `_v(?P<version>\d+)\.` +
			regexp.QuoteMeta(rest) + "$")
}

func (self *SpiceHandler) UnsequencedQuery() (string, error) {
	base, rest, err := self.splitVersionedName()
	if err != nil {
		return "", err
	}

	return base + "_v%." + rest, nil
}

// SpiceHandlerFromFilename parses an opaque kernel name using the
// given validator. When the path already sits inside the spice tree
// the kernel folder is taken from the path instead of re-derived, so
// files round-trip even when the validator would classify them
// differently.
func SpiceHandlerFromFilename(
	filename string, validator KernelValidator) (*SpiceHandler, bool) {
	name := baseName(filename)

	kernel_folder := ""
	dir := filepath.ToSlash(filepath.Dir(filename))
	components := strings.Split(dir, "/")
	for idx, component := range components {
		if component == "spice" && idx+1 < len(components) {
			kernel_folder = components[idx+1]
		}
	}

	info, ok := validator.Validate(name)
	if !ok && kernel_folder == "" {
		return nil, false
	}

	result := &SpiceHandler{
		Name: name,
	}

	if info != nil {
		result.KernelFolder = info.KernelFolder
		result.Sequenced = info.HasVersion
		result.Version = info.Version
	} else {
		// Inside the spice tree everything is a kernel, even if the
		// name shape is unknown.
		match := spiceVersionRegex.FindStringSubmatch(name)
		if match != nil {
			result.Sequenced = true
			result.Version = atoiOrZero(match[1])
		}
	}

	if kernel_folder != "" {
		result.KernelFolder = kernel_folder
	}

	return result, true
}
