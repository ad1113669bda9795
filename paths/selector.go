package paths

import (
	"fmt"

	"github.com/imap-mag/magsdc/logging"
)

// NoHandlerFoundError indicates no naming convention recognizes a
// filename. It carries the offending path so callers can report it.
type NoHandlerFoundError struct {
	Path string
}

func (self *NoHandlerFoundError) Error() string {
	return fmt.Sprintf("no suitable path handler found for file %s", self.Path)
}

type recognizer struct {
	tag   string
	parse func(filename string) (Handler, bool)
}

// handlerPriority is the documented selection order. It is
// significant: grammars that are strict subsets of the standard
// product pattern space (ancillary, calibration layers, housekeeping)
// must be tried first, the structurally disjoint conventions
// (I-ALiRT, quick-look, raw captures, kernels) anywhere before the
// end, and the generic standard product recognizer is the final
// fallback.
var handlerPriority = []recognizer{
	{"Ancillary", func(filename string) (Handler, bool) {
		result, ok := AncillaryHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"CalibrationLayer", func(filename string) (Handler, bool) {
		result, ok := CalibrationLayerHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"HKBinary", func(filename string) (Handler, bool) {
		result, ok := HKBinaryHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"HK", func(filename string) (Handler, bool) {
		result, ok := HKHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"IALiRT", func(filename string) (Handler, bool) {
		result, ok := IALiRTHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"Quicklook", func(filename string) (Handler, bool) {
		result, ok := QuicklookHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"Spice", func(filename string) (Handler, bool) {
		result, ok := SpiceHandlerFromFilename(
			filename, PatternKernelValidator{})
		if !ok {
			return nil, false
		}
		return result, true
	}},
	{"Science", func(filename string) (Handler, bool) {
		result, ok := ScienceHandlerFromFilename(filename)
		if !ok {
			return nil, false
		}
		return result, true
	}},
}

// FindByPath tries each known naming convention against the filename
// in priority order and returns the first match. With throw_if_not_found
// unset an unrecognized file yields (nil, nil) so callers can skip it.
func FindByPath(filename string, throw_if_not_found bool) (Handler, error) {
	logger := logging.GetLogger(logging.PathsComponent)

	for _, item := range handlerPriority {
		handler, ok := item.parse(filename)
		if ok {
			logger.Debugf("Path handler %s matches file %s.",
				item.tag, filename)
			return handler, nil
		}
	}

	if throw_if_not_found {
		return nil, &NoHandlerFoundError{Path: filename}
	}

	logger.Infof("No suitable path handler found for file %s.", filename)
	return nil, nil
}
